// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cmdr derives command line grammars from usage strings and matches
// argument vectors against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/cmdr/pkg/cli"
	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Path to cmdr.toml (CMDR_CONFIG)"`
	Verbose bool   `flag:"verbose" help:"Log to stderr"`
	NoColor bool   `flag:"no-color" help:"Disable colored output"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

// app carries the state shared by the subcommand handlers.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	noColor    bool

	// tail holds the arguments after "--". They are kept away from the
	// subcommand router so that tokens such as -h reach the matcher.
	tail    []string
	hasTail bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	head, tail, hasTail := cli.SplitArgsAtDoubleDash(args)
	globalFlags, remaining, err := parseGlobalFlags(head)
	if err != nil {
		printCLIError(stderr, err, globalFlags.NoColor)
		return 1
	}

	log.SetOutput(io.Discard)
	if globalFlags.Verbose {
		log.SetOutput(stderr)
	}
	if globalFlags.NoColor {
		color.NoColor = true
	}

	a := &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		configPath: globalFlags.Config,
		noColor:    globalFlags.NoColor,
		tail:       tail,
		hasTail:    hasTail,
	}

	helpConfig := cli.HelpConfig()
	handlers := map[string]yargs.SubcommandHandler{
		cli.CommandMatch:   a.handleMatch,
		cli.CommandInspect: a.handleInspect,
		cli.CommandBatch:   a.handleBatch,
		cli.CommandVersion: a.handleVersion,
	}
	if err := yargs.RunSubcommands(ctx, remaining, helpConfig, globalFlagsParsed{}, handlers); err != nil {
		printCLIError(stderr, err, a.noColor)
		return 1
	}
	return 0
}

// subcommandArgs drops the subcommand name from args and reattaches the
// arguments that followed "--".
func (a *app) subcommandArgs(args []string) []string {
	out := make([]string, 0, len(args)+len(a.tail)+1)
	dropped := false
	for _, arg := range args {
		if !dropped && !strings.HasPrefix(arg, "-") {
			dropped = true
			continue
		}
		out = append(out, arg)
	}
	if a.hasTail {
		out = append(out, "--")
		out = append(out, a.tail...)
	}
	return out
}

func printCLIError(w io.Writer, err error, noColor bool) {
	if err == nil {
		return
	}
	msg := "error: " + err.Error()
	var ue *usageError
	if errors.As(err, &ue) {
		msg += "\n" + ue.hint
	}
	if f, ok := w.(*os.File); ok && !noColor && isTerminalFn(int(f.Fd())) {
		c := color.New(color.FgRed)
		c.EnableColor()
		msg = c.Sprint(msg)
	}
	fmt.Fprintln(w, msg)
}

// usageError is an error caused by how the tool was invoked.
type usageError struct {
	err  error
	hint string
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}
