// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdr/pkg/cmdr"
)

const testUsage = "hello-world <NAME>... -v, --version -h, --help -q, --question=<QUESTION>"

func mustDerive(t *testing.T, usage string) *cmdr.Usage {
	t.Helper()
	u, err := cmdr.Derive(usage)
	if err != nil {
		t.Fatalf("Derive(%q) error: %v", usage, err)
	}
	return u
}

func TestRun(t *testing.T) {
	u := mustDerive(t, testUsage)
	input := strings.Join([]string{
		"# greetings",
		"Alice --version",
		"",
		`"Mary Ann" -q 'Who are you?'`,
		"Bob 'unterminated",
	}, "\n")

	results, err := Run(context.Background(), u, strings.NewReader(input), Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Line != 2 || results[1].Line != 4 || results[2].Line != 5 {
		t.Errorf("lines = %d, %d, %d, want 2, 4, 5", results[0].Line, results[1].Line, results[2].Line)
	}

	want := cmdr.Fields{
		"name":     []string{"Mary Ann"},
		"version":  false,
		"help":     false,
		"question": "Who are you?",
	}
	if diff := cmp.Diff(want, results[1].Fields); diff != "" {
		t.Errorf("results[1] mismatch (-want +got):\n%s", diff)
	}
	if !results[0].Fields.Bool("version") {
		t.Errorf("results[0] = %v, want version set", results[0].Fields)
	}

	var lerr *LineError
	if !errors.As(results[2].Err, &lerr) || lerr.Line != 5 {
		t.Fatalf("results[2].Err = %v, want *LineError for line 5", results[2].Err)
	}
	if results[2].Fields != nil || results[2].Tokens != nil {
		t.Errorf("results[2] = %+v, want no tokens or fields", results[2])
	}
	if diff := cmp.Diff([]string{"Mary Ann", "-q", "Who are you?"}, results[1].Tokens); diff != "" {
		t.Errorf("results[1].Tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPreservesOrder(t *testing.T) {
	u := mustDerive(t, "count <N>")
	var b strings.Builder
	for i := range 200 {
		fmt.Fprintf(&b, "%d\n", i)
	}
	for _, jobs := range []int{0, 1, 8} {
		results, err := Run(context.Background(), u, strings.NewReader(b.String()), Options{Jobs: jobs})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error: %v", jobs, err)
		}
		for i, r := range results {
			if v, _ := r.Fields.Value("n"); v != fmt.Sprint(i) {
				t.Fatalf("jobs=%d: results[%d] n = %q", jobs, i, v)
			}
		}
	}
}

func TestRunStrict(t *testing.T) {
	u := mustDerive(t, "app <FILE> -v")
	results, err := Run(context.Background(), u, strings.NewReader("a.txt --bogus\nb.txt -v\n"), Options{Strict: true})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var unrec *cmdr.UnrecognizedTokenError
	if !errors.As(results[0].Err, &unrec) || unrec.Token != "--bogus" {
		t.Errorf("results[0].Err = %v, want unrecognized --bogus", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("results[1].Err = %v", results[1].Err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, mustDerive(t, "app <X>"), strings.NewReader("a\nb\n"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"  a   b\tc ", []string{"a", "b", "c"}},
		{`'a b' "c d"`, []string{"a b", "c d"}},
		{`it\'s`, []string{"it's"}},
		{`"say \"hi\""`, []string{`say "hi"`}},
		{`'no \escape'`, []string{`no \escape`}},
		{`'' x`, []string{"", "x"}},
		{`--question="Who?"`, []string{"--question=Who?"}},
	}
	for _, tt := range tests {
		got, err := Split(tt.in)
		if err != nil {
			t.Errorf("Split(%q) error: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	for _, in := range []string{
		`"open`,
		`'open`,
		`tail\`,
		`a | b`,
		`a; rm -rf x`,
	} {
		if words, err := Split(in); err == nil {
			t.Errorf("Split(%q) = %q, want error", in, words)
		}
	}
}
