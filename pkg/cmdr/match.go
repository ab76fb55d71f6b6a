// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import (
	"errors"
	"strings"
	"unicode"

	"tailscale.com/util/set"
)

// Parse derives the grammar of usage and matches input against it in one
// step. It is the equivalent of calling Derive followed by Usage.Match.
func Parse(usage string, input []string) (*Usage, Fields, error) {
	u, err := Derive(usage)
	if err != nil {
		return nil, nil, err
	}
	return u, u.Match(input), nil
}

// Match classifies every input token against the grammar and returns a fresh
// field map. Tokens are tried as options, then flags, then positional
// arguments; tokens that match nothing are ignored. Match never fails.
func (u *Usage) Match(input []string) Fields {
	fields, _ := u.match(input, false)
	return fields
}

// MatchPositional is like Match but hands positional tokens to the declared
// arguments in turn: each single argument takes one token before the next
// declared argument is considered. Once every accepting single argument has
// a value, the first one is overwritten.
//
// With "cp <SRC> <DST>", the input "a b" yields src=a, dst=b, where Match
// yields src=b and leaves dst undefined.
func (u *Usage) MatchPositional(input []string) Fields {
	fields, _ := u.match(input, true)
	return fields
}

// MatchStrict is like Match but also reports every ignored token as an
// *UnrecognizedTokenError and an option marker without a following value as
// a *MissingValueError. The errors are joined; the returned Fields are the
// same as Match would return.
func (u *Usage) MatchStrict(input []string) (Fields, error) {
	fields, errs := u.match(input, false)
	return fields, errors.Join(errs...)
}

func (u *Usage) match(input []string, positional bool) (Fields, []error) {
	fields := u.defaults()
	var assigned set.Set[string]
	if positional {
		assigned = make(set.Set[string])
	}
	// Positions already used as the value of a preceding option.
	consumed := make(set.Set[int])
	var errs []error

	for i, tok := range input {
		if consumed.Contains(i) {
			continue
		}

		if o, value, attached, ok := u.matchOption(tok); ok {
			if !attached {
				if i+1 >= len(input) {
					errs = append(errs, &MissingValueError{Option: o.Name, Index: i})
					continue
				}
				value = input[i+1]
				consumed.Add(i + 1)
			}
			fields.record(o.NormalizedName, value, o.Multiple())
			continue
		}

		if f, ok := u.matchFlag(tok); ok {
			fields[f.NormalizedName] = true
			continue
		}

		if a, ok := u.matchArgument(tok, assigned); ok {
			fields.record(a.NormalizedName, tok, a.Multiple)
			if assigned != nil {
				assigned.Add(a.NormalizedName)
			}
			continue
		}

		errs = append(errs, &UnrecognizedTokenError{Token: tok, Index: i})
	}
	return fields, errs
}

// defaults returns the field map before any token has been matched.
func (u *Usage) defaults() Fields {
	fields := make(Fields, len(u.arguments)+len(u.flags)+len(u.options))
	for _, f := range u.flags {
		fields[f.NormalizedName] = false
	}
	for _, o := range u.options {
		fields[o.NormalizedName] = initialValue(o.Multiple())
	}
	for _, a := range u.arguments {
		fields[a.NormalizedName] = initialValue(a.Multiple)
	}
	return fields
}

func initialValue(multiple bool) any {
	if multiple {
		return []string{}
	}
	return nil
}

// matchOption returns the first declared option tok refers to. When the value
// is attached (--name=value), it is returned with attached set.
func (u *Usage) matchOption(tok string) (Option, string, bool, bool) {
	for _, o := range u.options {
		if value, attached, ok := o.matchToken(tok); ok {
			return o, value, attached, true
		}
	}
	return Option{}, "", false, false
}

func (u *Usage) matchFlag(tok string) (Flag, bool) {
	for _, f := range u.flags {
		if f.matches(tok) {
			return f, true
		}
	}
	return Flag{}, false
}

// matchArgument returns the first declared argument accepting tok. When
// assigned is non-nil, single arguments already holding a value are passed
// over in favour of later ones, falling back to the first accepting argument
// once all are taken.
func (u *Usage) matchArgument(tok string, assigned set.Set[string]) (Argument, bool) {
	var first *Argument
	for i := range u.arguments {
		a := &u.arguments[i]
		if !a.accepts(tok) {
			continue
		}
		if assigned == nil || a.Multiple || !assigned.Contains(a.NormalizedName) {
			return *a, true
		}
		if first == nil {
			first = a
		}
	}
	if first != nil {
		return *first, true
	}
	return Argument{}, false
}

// matches reports whether tok is exactly -alias or --name.
func (f Flag) matches(tok string) bool {
	if tok == "--"+f.Name {
		return true
	}
	return f.Alias != "" && tok == "-"+f.Alias
}

// matchToken reports whether tok is one of -a, --name, -a=value or
// --name=value.
func (o Option) matchToken(tok string) (value string, attached, ok bool) {
	if o.Flag.matches(tok) {
		return "", false, true
	}
	if v, ok := strings.CutPrefix(tok, "--"+o.Name+"="); ok {
		return v, true, true
	}
	if o.Alias != "" {
		if v, ok := strings.CutPrefix(tok, "-"+o.Alias+"="); ok {
			return v, true, true
		}
	}
	return "", false, false
}

// accepts reports whether tok is a literal value for a positional argument:
// it must not look like a flag (negative numbers are fine) and must contain
// at least one letter, digit, space, '-', '?' or '@'. Quotes are kept as is.
func (a Argument) accepts(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] == '-' && !isNumeric(tok) {
		return false
	}
	return strings.ContainsFunc(tok, func(r rune) bool {
		switch r {
		case '-', '?', '@':
			return true
		}
		return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)
	})
}

// isNumeric checks if a string is a number (e.g., "10", "-10", "3.14", "-3.14")
func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}

	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}

	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
