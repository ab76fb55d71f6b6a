// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import "slices"

// Fields is the result of matching input against a Usage. It maps every
// declared normalized name to its value:
//   - flags: bool
//   - single options and arguments: string, or nil when not given
//   - multiple options and arguments: []string, empty when not given
type Fields map[string]any

func (f Fields) record(key, value string, multiple bool) {
	if multiple {
		values, _ := f[key].([]string)
		f[key] = append(values, value)
		return
	}
	f[key] = value
}

// Bool returns the value of a flag. It is false for unknown keys.
func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Value returns the value of a single option or argument and whether it was
// given. For a multiple field the last value is returned.
func (f Fields) Value(key string) (string, bool) {
	switch v := f[key].(type) {
	case string:
		return v, true
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return v[len(v)-1], true
	}
	return "", false
}

// Strings returns a copy of the values of a multiple option or argument. A
// single field yields a one-element slice when given.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return slices.Clone(v)
	case string:
		return []string{v}
	}
	return nil
}

// Defined reports whether key was declared and received a value. Flags are
// defined when true.
func (f Fields) Defined(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		return true
	case []string:
		return len(v) > 0
	}
	return false
}

// Clone returns a deep copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if s, ok := v.([]string); ok {
			v = slices.Clone(s)
		}
		out[k] = v
	}
	return out
}
