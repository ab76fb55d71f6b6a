// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env encodes matched fields as shell variable assignments suitable
// for eval in bash or zsh.
package env

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/yeetrun/cmdr/pkg/cmdr"
)

// Write writes an environment file with the given name and content.
func Write(name, prefix string, keys []string, fields cmdr.Fields) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := Marshal(f, prefix, keys, fields); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	return f.Close()
}

// Marshal writes one assignment per key, in the order given. Variable names
// are the upper snake case form of the key with prefix prepended
// ("questionId" becomes PREFIX_QUESTION_ID when prefix is "PREFIX_").
// Undefined values are skipped and lists are written as arrays.
func Marshal(w io.Writer, prefix string, keys []string, fields cmdr.Fields) error {
	for _, key := range keys {
		name := prefix + VarName(key)
		var err error
		switch v := fields[key].(type) {
		case nil:
			continue
		case bool:
			_, err = fmt.Fprintf(w, "%s=%t\n", name, v)
		case string:
			_, err = fmt.Fprintf(w, "%s=%s\n", name, Quote(v))
		case []string:
			quoted := make([]string, len(v))
			for i, s := range v {
				quoted[i] = Quote(s)
			}
			_, err = fmt.Fprintf(w, "%s=(%s)\n", name, strings.Join(quoted, " "))
		default:
			return fmt.Errorf("unsupported value %T for %q", v, key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// VarName converts a camelCase field key to UPPER_SNAKE_CASE.
func VarName(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
