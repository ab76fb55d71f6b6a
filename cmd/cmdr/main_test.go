// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/cmdr/pkg/config"
	"github.com/yeetrun/cmdr/pkg/version"
)

const helloUsage = "hello-world <NAME>... -q, --question=<QUESTION> -v, --version -h, --help"

// isolateConfig points discovery at an empty config so tests never pick up
// a cmdr.toml from the surrounding tree.
func isolateConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	t.Setenv(config.EnvVar, path)
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunMatch(t *testing.T) {
	isolateConfig(t, "")
	code, out, errOut := runCmd(t, "", "match", "--usage", helloUsage, "--format=json", "--", "Alice", "-v", "-h")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	want := `{"name":["Alice"],"version":true,"help":true,"question":null}` + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMatchAlias(t *testing.T) {
	isolateConfig(t, "")
	code, out, errOut := runCmd(t, "", "m", "--usage=app --dry-run", "--format", "env", "--prefix", "APP_", "--", "--dry-run")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "APP_DRY_RUN=true\n" {
		t.Errorf("output = %q, want %q", out, "APP_DRY_RUN=true\n")
	}
}

func TestRunMatchUsesConfig(t *testing.T) {
	isolateConfig(t, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	body := "usage = \"" + helloUsage + "\"\nformat = \"yaml\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := runCmd(t, "", "--config", path, "match", "--", "Bob", "--question=Why?")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	for _, want := range []string{"name:", "- Bob", "question: Why?", "version: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunMatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name:    "no usage",
			args:    []string{"match", "--", "x"},
			wantErr: "no usage string",
		},
		{
			name:    "strict flag",
			args:    []string{"match", "--usage", "app <FILE>", "--strict", "--", "a", "--bogus"},
			wantErr: `unrecognized token "--bogus" at position 1`,
		},
		{
			name:    "strict config",
			config:  "strict = true\n",
			args:    []string{"match", "--usage", "app --out=<PATH>", "--", "--out"},
			wantErr: "option --out requires a value",
		},
		{
			name:    "bad grammar",
			args:    []string{"match", "--usage", "app --dry-run --dry_run", "--", "a"},
			wantErr: "duplicate field",
		},
		{
			name:    "bad format",
			args:    []string{"match", "--usage", "app", "--format=xml"},
			wantErr: "unknown format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t, tt.config)
			code, _, errOut := runCmd(t, "", tt.args...)
			if code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestRunRequires(t *testing.T) {
	isolateConfig(t, "requires = \">= 999.0\"\n")
	code, _, errOut := runCmd(t, "", "match", "--usage", "app")
	if _, release := version.Semver(); !release {
		// Development builds skip the requires check.
		if code != 0 {
			t.Errorf("exit code = %d, stderr = %q", code, errOut)
		}
		return
	}
	if code != 1 || !strings.Contains(errOut, "requires cmdr >= 999.0") {
		t.Errorf("exit code = %d, stderr = %q", code, errOut)
	}
}

func TestRunInspect(t *testing.T) {
	isolateConfig(t, "")
	code, out, errOut := runCmd(t, "", "inspect", "--usage", helloUsage, "--keys")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if out != "name\nversion\nhelp\nquestion\n" {
		t.Errorf("keys = %q", out)
	}

	code, out, _ = runCmd(t, "", "inspect", "--usage", helloUsage)
	if code != 0 || !strings.HasPrefix(out, "USAGE:\n    "+helloUsage) {
		t.Errorf("inspect = %d, %q", code, out)
	}

	if code, _, _ := runCmd(t, "", "inspect", "--usage", helloUsage, "--", "stray"); code != 1 {
		t.Errorf("inspect with stray args exit code = %d, want 1", code)
	}
}

func TestRunBatch(t *testing.T) {
	isolateConfig(t, "")
	input := "# people\nAlice -v\n\n\"Mary Ann\" -q 'Who?'\n"
	code, out, errOut := runCmd(t, input, "batch", "--usage", helloUsage, "--format", "json", "--jobs", "2")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second["question"] != "Who?" {
		t.Errorf("second = %v", second)
	}
}

func TestRunBatchReportsLineErrors(t *testing.T) {
	isolateConfig(t, "")
	code, out, errOut := runCmd(t, "ok\n'broken\n", "batch", "--usage", "app <X>")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "line 2: invalid command line string") || !strings.Contains(errOut, "1 of 2 lines failed") {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(out, `"ok"`) {
		t.Errorf("stdout = %q, want the good line", out)
	}
}

func TestRunBatchPrintsTokensOfFailedLines(t *testing.T) {
	isolateConfig(t, "")
	code, _, errOut := runCmd(t, "a.txt --bogus\n", "batch", "--usage", "app <FILE> -v", "--strict")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, `tokens: ["a.txt" "--bogus"]`) {
		t.Errorf("stderr = %q, want the tokens of line 1", errOut)
	}
}

func TestRunMatchPositionalEnvFile(t *testing.T) {
	isolateConfig(t, "")
	envFile := filepath.Join(t.TempDir(), "args.env")
	code, out, errOut := runCmd(t, "", "match", "--usage", "cp <SRC> <DST>", "--positional",
		"--env-file", envFile, "--prefix", "CP_", "--format", "json", "--", "a", "b")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut)
	}
	if want := `{"src":"a","dst":"b"}` + "\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	got, err := os.ReadFile(envFile)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("CP_SRC='a'\nCP_DST='b'\n", string(got)); diff != "" {
		t.Errorf("env file mismatch (-want +got):\n%s", diff)
	}

	// Without --positional every value lands in the first argument.
	_, out, _ = runCmd(t, "", "match", "--usage", "cp <SRC> <DST>", "--format", "json", "--", "a", "b")
	if want := `{"src":"b","dst":null}` + "\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCmd(t, "", "version", "--json")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version output is not json: %v", err)
	}
	if diff := cmp.Diff(version.GetInfo(), info); diff != "" {
		t.Errorf("version mismatch (-want +got):\n%s", diff)
	}
}

func TestSubcommandArgs(t *testing.T) {
	a := &app{tail: []string{"-h", "x"}, hasTail: true}
	got := a.subcommandArgs([]string{"match", "--usage", "u"})
	want := []string{"--usage", "u", "--", "-h", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommandArgs mismatch (-want +got):\n%s", diff)
	}

	a = &app{}
	got = a.subcommandArgs([]string{"--json", "version"})
	if diff := cmp.Diff([]string{"--json"}, got); diff != "" {
		t.Errorf("subcommandArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintCLIError(t *testing.T) {
	var b bytes.Buffer
	printCLIError(&b, &usageError{err: errNoUsage, hint: "pass --usage"}, false)
	if b.String() != "error: no usage string\npass --usage\n" {
		t.Errorf("printCLIError = %q", b.String())
	}

	b.Reset()
	printCLIError(&b, nil, false)
	if b.Len() != 0 {
		t.Errorf("printCLIError(nil) wrote %q", b.String())
	}

	var ue *usageError
	if !errors.As(&usageError{err: errNoUsage}, &ue) || !errors.Is(ue, errNoUsage) {
		t.Error("usageError does not unwrap")
	}
}
