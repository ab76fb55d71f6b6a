// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"fmt"

	"github.com/mattn/go-shellwords"
)

// Split breaks s into words the way a shell would. Environment variables and
// backticks are not expanded. Unbalanced quotes, a trailing backslash and
// shell operators such as | or ; are errors.
func Split(s string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false
	words, err := p.Parse(s)
	if err != nil {
		return nil, err
	}
	// Parse stops at the first operator and reports where.
	if p.Position >= 0 {
		return nil, fmt.Errorf("unexpected shell operator at offset %d", p.Position)
	}
	return words, nil
}
