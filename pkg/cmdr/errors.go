// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import "fmt"

// GrammarError is returned by Derive and the token sub-parsers when a
// recognized usage token lacks a required name component. It indicates a
// programming error in the usage string itself.
type GrammarError struct {
	Token  string // The usage token that could not be parsed (e.g. "<>")
	Reason string // e.g. "missing argument name"
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%s in %q", e.Reason, e.Token)
}

// UnrecognizedTokenError is reported by MatchStrict for an input token that
// matched no declared option, flag or argument.
type UnrecognizedTokenError struct {
	Token string
	Index int // Position of the token in the input
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("unrecognized token %q at position %d", e.Token, e.Index)
}

// MissingValueError is reported by MatchStrict when an option marker is the
// last input token and therefore has no value.
type MissingValueError struct {
	Option string // Long name of the option
	Index  int
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("option --%s requires a value", e.Option)
}

// DecodeError is returned by Fields.Decode when a matched value cannot be
// converted to the destination field type.
type DecodeError struct {
	Key   string // Normalized name in the field map
	Field string // Struct field name
	Value string // The offending value
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s=%q into field %s: %v", e.Key, e.Value, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
