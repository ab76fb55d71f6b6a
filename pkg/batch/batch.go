// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch matches many argument vectors against one grammar
// concurrently.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/yeetrun/cmdr/pkg/cmdr"
	"golang.org/x/sync/errgroup"
)

// Options controls a batch run.
type Options struct {
	// Jobs bounds the number of concurrent matches. Zero or negative means
	// GOMAXPROCS.
	Jobs int
	// Strict reports unrecognized tokens and missing option values as
	// per-line errors.
	Strict bool
}

// Result is the outcome for one input line.
type Result struct {
	// Line is the 1-based line number in the input.
	Line   int
	Tokens []string
	Fields cmdr.Fields
	Err    error
}

// LineError wraps a failure for a single input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type line struct {
	num  int
	text string
}

// Run reads one argument vector per line from r and matches each against
// usage. Blank lines and lines starting with # are skipped. Results are
// returned in input order. Per-line failures are reported in Result.Err;
// Run itself only fails when reading fails or ctx is done.
func Run(ctx context.Context, usage *cmdr.Usage, r io.Reader, opts Options) ([]Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, l := range lines {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = matchLine(usage, l, opts.Strict)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func matchLine(usage *cmdr.Usage, l line, strict bool) Result {
	res := Result{Line: l.num}
	tokens, err := Split(l.text)
	if err != nil {
		res.Err = &LineError{Line: l.num, Err: err}
		return res
	}
	res.Tokens = tokens
	if !strict {
		res.Fields = usage.Match(tokens)
		return res
	}
	res.Fields, err = usage.MatchStrict(tokens)
	if err != nil {
		res.Err = &LineError{Line: l.num, Err: err}
	}
	return res
}

func readLines(r io.Reader) ([]line, error) {
	var lines []line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{num: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}
	return lines, nil
}
