// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// placeholderName is used as the program name when the usage string does not
// start with one.
const placeholderName = "program"

// Argument is a positional parameter, written <NAME> or <NAME>... in a usage
// string.
type Argument struct {
	Name           string // As written, e.g. "NAME"
	NormalizedName string // Field key, e.g. "name"
	Multiple       bool   // Written with a trailing "..."
}

// Flag is a boolean switch, written -v, --version or just one of the two.
type Flag struct {
	Name           string // Long form; the alias when no long form was written
	NormalizedName string
	Alias          string // Optional single letter
}

// Option is a flag that carries a value, e.g. -q, --question=<QUESTION>.
type Option struct {
	Flag
	Arg Argument
}

// Multiple reports whether the option collects every value it is given.
func (o Option) Multiple() bool {
	return o.Arg.Multiple
}

// Usage is the grammar derived from a usage string. It is immutable once
// returned by Derive and may be matched against from multiple goroutines.
type Usage struct {
	// Name is the program name taken from the start of the usage string.
	Name string

	str       string
	arguments []Argument
	flags     []Flag
	options   []Option
}

// String returns the usage string exactly as it was passed to Derive.
func (u *Usage) String() string {
	return u.str
}

// Arguments returns the declared positional arguments in order of appearance.
func (u *Usage) Arguments() []Argument {
	return slices.Clone(u.arguments)
}

// Flags returns the declared flags in order of appearance.
func (u *Usage) Flags() []Flag {
	return slices.Clone(u.flags)
}

// Options returns the declared options in order of appearance.
func (u *Usage) Options() []Option {
	return slices.Clone(u.options)
}

// Keys returns every normalized name: arguments first, then flags, then
// options, each in order of appearance.
func (u *Usage) Keys() []string {
	keys := make([]string, 0, len(u.arguments)+len(u.flags)+len(u.options))
	for _, a := range u.arguments {
		keys = append(keys, a.NormalizedName)
	}
	for _, f := range u.flags {
		keys = append(keys, f.NormalizedName)
	}
	for _, o := range u.options {
		keys = append(keys, o.NormalizedName)
	}
	return keys
}

var programNameRe = regexp.MustCompile(`^[a-z][a-z_-]*`)

// Derive builds the grammar described by usage. It fails with a
// *GrammarError when a token lacks a name or two tokens share a field key.
//
//	u, err := cmdr.Derive("hello-world <NAME>... -q, --question=<QUESTION> -v, --version")
func Derive(usage string) (*Usage, error) {
	u := &Usage{str: usage, Name: placeholderName}

	rest := strings.TrimLeftFunc(usage, unicode.IsSpace)
	if name := programNameRe.FindString(rest); name != "" {
		u.Name = name
		rest = rest[len(name):]
	}

	seen := make(map[string]string)
	claim := func(key, tok string) error {
		if prev, ok := seen[key]; ok {
			return &GrammarError{Token: tok, Reason: fmt.Sprintf("duplicate field %q (already declared by %q)", key, prev)}
		}
		seen[key] = tok
		return nil
	}

	for _, tok := range scan(rest) {
		switch tok.kind {
		case optionToken:
			o, err := ParseOption(tok.text)
			if err != nil {
				return nil, err
			}
			if err := claim(o.NormalizedName, tok.text); err != nil {
				return nil, err
			}
			u.options = append(u.options, o)
		case flagToken:
			f, err := ParseFlag(tok.text)
			if err != nil {
				return nil, err
			}
			if err := claim(f.NormalizedName, tok.text); err != nil {
				return nil, err
			}
			u.flags = append(u.flags, f)
		case argumentToken:
			a, err := ParseArgument(tok.text)
			if err != nil {
				return nil, err
			}
			if err := claim(a.NormalizedName, tok.text); err != nil {
				return nil, err
			}
			u.arguments = append(u.arguments, a)
		}
	}
	return u, nil
}

var (
	argNameRe   = regexp.MustCompile(`<([A-Z0-9][A-Z0-9_-]*)>`)
	flagAliasRe = regexp.MustCompile(`(?:^|[^\w-])-([a-z])(?:[^\w-]|$)`)
	flagLongRe  = regexp.MustCompile(`--([a-z](?:[a-z0-9_-]*[a-z0-9])?)`)
)

// ParseArgument parses a single argument token such as "<NAME>...".
func ParseArgument(tok string) (Argument, error) {
	m := argNameRe.FindStringSubmatch(tok)
	if m == nil {
		return Argument{}, &GrammarError{Token: tok, Reason: "missing argument name"}
	}
	return Argument{
		Name:           m[1],
		NormalizedName: normalizeName(m[1]),
		Multiple:       strings.HasSuffix(tok, "..."),
	}, nil
}

// ParseFlag parses a single flag token such as "-v, --version".
func ParseFlag(tok string) (Flag, error) {
	name, alias := flagNames(tok)
	if name == "" {
		return Flag{}, &GrammarError{Token: tok, Reason: "missing flag name"}
	}
	return Flag{Name: name, NormalizedName: normalizeName(name), Alias: alias}, nil
}

// ParseOption parses a single option token such as "-q, --question=<QUESTION>".
func ParseOption(tok string) (Option, error) {
	name, alias := flagNames(tok)
	if name == "" {
		return Option{}, &GrammarError{Token: tok, Reason: "missing option name"}
	}
	arg, err := ParseArgument(tok)
	if err != nil {
		return Option{}, err
	}
	return Option{
		Flag: Flag{Name: name, NormalizedName: normalizeName(name), Alias: alias},
		Arg:  arg,
	}, nil
}

// flagNames extracts the long name and the single-letter alias from a flag
// or option token. A token with only an alias uses it as the name.
func flagNames(tok string) (name, alias string) {
	// The argument part never contributes letters to the names.
	if i := strings.IndexByte(tok, '='); i >= 0 {
		tok = tok[:i]
	}
	if m := flagAliasRe.FindStringSubmatch(tok); m != nil {
		alias = m[1]
	}
	if m := flagLongRe.FindStringSubmatch(tok); m != nil {
		name = m[1]
	}
	if name == "" {
		name = alias
	}
	return name, alias
}

// normalizeName converts a declared name to its camelCase field key:
// "question-id" becomes "questionId" and "QUESTION" becomes "question".
func normalizeName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	var b strings.Builder
	for _, part := range parts {
		part = strings.ToLower(part)
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	key := b.String()
	if key == "" {
		return ""
	}
	return strings.ToLower(key[:1]) + key[1:]
}
