// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import "regexp"

type tokenKind int

const (
	optionToken tokenKind = iota
	flagToken
	argumentToken
)

func (k tokenKind) String() string {
	switch k {
	case optionToken:
		return "option"
	case flagToken:
		return "flag"
	case argumentToken:
		return "argument"
	}
	return "unknown"
}

// grammarToken is a span of the usage string recognized as one declaration.
type grammarToken struct {
	kind tokenKind
	text string
}

const (
	longExpr   = `[a-z](?:[a-z0-9_-]*[a-z0-9])?`
	argRefExpr = `<[A-Z0-9_-]*>(?:\.\.\.)?`
)

// shapes are tried in order at every candidate position. Options come first
// because every option starts with something flag-shaped.
var shapes = []struct {
	kind tokenKind
	re   *regexp.Regexp
}{
	{optionToken, regexp.MustCompile(`^-[a-z], --` + longExpr + `=` + argRefExpr)},
	{optionToken, regexp.MustCompile(`^--` + longExpr + `=` + argRefExpr)},
	{optionToken, regexp.MustCompile(`^-[a-z]=` + argRefExpr)},
	{flagToken, regexp.MustCompile(`^-[a-z], --` + longExpr)},
	{flagToken, regexp.MustCompile(`^--` + longExpr)},
	{flagToken, regexp.MustCompile(`^-[a-z]`)},
	{argumentToken, regexp.MustCompile(`^` + argRefExpr)},
}

// scan splits the declaration part of a usage string into grammar tokens,
// left to right. Tokens only start and end on word boundaries so that
// "hello-world" or "-abc" are not mistaken for flags. Anything that is not a
// token (brackets, pipes, prose) is skipped.
func scan(s string) []grammarToken {
	var toks []grammarToken
	atBoundary := true
	for i := 0; i < len(s); {
		if atBoundary {
			if tok, ok := matchShape(s[i:]); ok {
				toks = append(toks, tok)
				i += len(tok.text)
				continue
			}
		}
		atBoundary = !isNameByte(s[i])
		i++
	}
	return toks
}

func matchShape(s string) (grammarToken, bool) {
	for _, sh := range shapes {
		m := sh.re.FindString(s)
		if m == "" {
			continue
		}
		if len(m) < len(s) && isNameByte(s[len(m)]) {
			continue
		}
		return grammarToken{kind: sh.kind, text: m}, true
	}
	return grammarToken{}, false
}

func isNameByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}
