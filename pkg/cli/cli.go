// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the command table and flag parsing for the cmdr tool.
package cli

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/shayne/yargs"
)

type FlagSpec struct {
	ConsumesValue bool
}

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Aliases     []string
}

// MatchFlags are the flags of "cmdr match".
type MatchFlags struct {
	Usage      string
	Format     string
	Strict     bool
	Prefix     string
	Positional bool
	EnvFile    string
}

// InspectFlags are the flags of "cmdr inspect".
type InspectFlags struct {
	Usage string
	Keys  bool
}

// BatchFlags are the flags of "cmdr batch".
type BatchFlags struct {
	Usage  string
	Format string
	Strict bool
	Input  string
	Jobs   int
}

type VersionFlags struct {
	JSON bool
}

type matchFlagsParsed struct {
	Usage  string `flag:"usage" short:"u" help:"Usage string (defaults to cmdr.toml)"`
	Format string `flag:"format" short:"f" help:"Output format"`
	Strict bool   `flag:"strict" help:"Fail on unrecognized tokens and missing option values"`
	Prefix     string `flag:"prefix" help:"Variable prefix for --format=env and --env-file"`
	Positional bool   `flag:"positional" short:"p" help:"Fill arguments in declaration order"`
	EnvFile    string `flag:"env-file" help:"Also write the fields as shell assignments to FILE"`
}

type inspectFlagsParsed struct {
	Usage string `flag:"usage" short:"u" help:"Usage string (defaults to cmdr.toml)"`
	Keys  bool   `flag:"keys" help:"Print only the field keys"`
}

type batchFlagsParsed struct {
	Usage  string `flag:"usage" short:"u" help:"Usage string (defaults to cmdr.toml)"`
	Format string `flag:"format" short:"f" help:"Output format"`
	Strict bool   `flag:"strict" help:"Report unrecognized tokens per line"`
	Input  string `flag:"input" short:"i" help:"Input file, plain or zstd (default stdin)"`
	Jobs   int    `flag:"jobs" short:"j" help:"Concurrent matches (default GOMAXPROCS)"`
}

type versionFlagsParsed struct {
	JSON bool `flag:"json"`
}

const (
	CommandMatch   = "match"
	CommandInspect = "inspect"
	CommandBatch   = "batch"
	CommandVersion = "version"
)

var commandInfos = map[string]CommandInfo{
	CommandMatch: {Name: CommandMatch, Description: "Match tokens against a usage string and print the fields", Usage: "[--usage=USAGE] [--format=FORMAT] [--strict] [--positional] [--env-file=FILE] -- TOKENS...", Examples: []string{
		`cmdr match --usage="hello <NAME>... -v, --version" -- Alice Bob -v`,
		`cmdr match --format=json -- --question "Who?"`,
		`eval "$(cmdr match --format=env --prefix=ARG_ -- "$@")"`,
		`cmdr match --positional --env-file=args.env --usage="cp <SRC> <DST>" -- a b`,
	}, Aliases: []string{"m"}},
	CommandInspect: {Name: CommandInspect, Description: "Show the grammar derived from a usage string", Usage: "[--usage=USAGE] [--keys]", Examples: []string{
		`cmdr inspect --usage="tool <FILE>... -o, --out=<PATH>"`,
	}},
	CommandBatch: {Name: CommandBatch, Description: "Match one argument vector per input line", Usage: "[--usage=USAGE] [--format=FORMAT] [--strict] [--input=FILE] [--jobs=N]", Examples: []string{
		"cmdr batch --input=argv.txt --format=json",
		"cmdr batch --input=argv.txt.zst --jobs=4",
	}},
	CommandVersion: {Name: CommandVersion, Description: "Show the version of cmdr", Usage: "[--json]"},
}

var flagSpecs = map[string]map[string]FlagSpec{
	CommandMatch:   flagSpecsFromStruct(matchFlagsParsed{}),
	CommandInspect: flagSpecsFromStruct(inspectFlagsParsed{}),
	CommandBatch:   flagSpecsFromStruct(batchFlagsParsed{}),
	CommandVersion: flagSpecsFromStruct(versionFlagsParsed{}),
}

func commandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HelpConfig describes the tool for yargs help output.
func HelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo, len(commandInfos))
	for _, name := range commandNames() {
		subcommands[name] = toSubCommandInfo(name, commandInfos[name])
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "cmdr",
			Description: "Derive a command line grammar from its usage string and match arguments against it.",
			Examples: []string{
				`cmdr match --usage="hello <NAME>... -q, --question=<Q>" -- Alice -q "Why?"`,
				`cmdr inspect --usage="tool <FILE>... -v, --verbose"`,
				"cmdr batch --input=argv.txt --format=yaml",
			},
		},
		SubCommands: subcommands,
	}
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Aliases:     info.Aliases,
	}
}

// ParseMatch parses the flags of "cmdr match". Everything after "--" is
// returned untouched as the tokens to match.
func ParseMatch(args []string) (MatchFlags, []string, error) {
	parseArgs, tokens, _ := SplitArgsAtDoubleDash(args)
	parsed, err := parseFlags[matchFlagsParsed](parseArgs)
	if err != nil {
		return MatchFlags{}, nil, err
	}
	flags := MatchFlags{
		Usage:  parsed.Flags.Usage,
		Format: parsed.Flags.Format,
		Strict: parsed.Flags.Strict,
		Prefix: parsed.Flags.Prefix,

		Positional: parsed.Flags.Positional,
		EnvFile:    parsed.Flags.EnvFile,
	}
	return flags, append(parsed.Args, tokens...), nil
}

func ParseInspect(args []string) (InspectFlags, []string, error) {
	parseArgs, extraArgs, _ := SplitArgsAtDoubleDash(args)
	parsed, err := parseFlags[inspectFlagsParsed](parseArgs)
	if err != nil {
		return InspectFlags{}, nil, err
	}
	flags := InspectFlags{
		Usage: parsed.Flags.Usage,
		Keys:  parsed.Flags.Keys,
	}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseBatch(args []string) (BatchFlags, []string, error) {
	parseArgs, extraArgs := splitArgsForParsing(args, flagSpecs[CommandBatch])
	parsed, err := parseFlags[batchFlagsParsed](parseArgs)
	if err != nil {
		return BatchFlags{}, nil, err
	}
	flags := BatchFlags{
		Usage:  parsed.Flags.Usage,
		Format: parsed.Flags.Format,
		Strict: parsed.Flags.Strict,
		Input:  parsed.Flags.Input,
		Jobs:   parsed.Flags.Jobs,
	}
	if flags.Jobs < 0 {
		return BatchFlags{}, nil, fmt.Errorf("--jobs must not be negative, got %d", flags.Jobs)
	}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseVersion(args []string) (VersionFlags, []string, error) {
	parseArgs, extraArgs, _ := SplitArgsAtDoubleDash(args)
	parsed, err := parseFlags[versionFlagsParsed](parseArgs)
	if err != nil {
		return VersionFlags{}, nil, err
	}
	flags := VersionFlags{JSON: parsed.Flags.JSON}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut}, nil
}

// SplitArgsAtDoubleDash splits args at the first "--", dropping it. found
// reports whether a "--" was present.
func SplitArgsAtDoubleDash(args []string) (head, tail []string, found bool) {
	for i, arg := range args {
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:], true
			}
			return args[:i], nil, true
		}
	}
	return args, nil, false
}

// splitArgsForParsing stops at "--" or at the first flag the command does
// not know, so that unknown flags reach the caller as arguments.
func splitArgsForParsing(args []string, specs map[string]FlagSpec) ([]string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
		if strings.HasPrefix(arg, "--") && len(arg) > 2 {
			name := arg
			if idx := strings.Index(name, "="); idx != -1 {
				name = name[:idx]
			}
			spec, ok := specs[name]
			if !ok {
				return args[:i], args[i:]
			}
			if spec.ConsumesValue && !strings.Contains(arg, "=") {
				i++
			}
			continue
		}
		if strings.HasPrefix(arg, "-") && arg != "-" {
			if strings.Contains(arg, "=") {
				name := arg[:strings.Index(arg, "=")]
				if _, ok := specs[name]; ok {
					continue
				}
				return args[:i], args[i:]
			}
			if len(arg) == 2 {
				spec, ok := specs[arg]
				if !ok {
					return args[:i], args[i:]
				}
				if spec.ConsumesValue {
					i++
				}
				continue
			}
			if _, ok := specs["-"+string(arg[1])]; !ok {
				return args[:i], args[i:]
			}
		}
	}
	return args, nil
}

func flagSpecsFromStruct(v any) map[string]FlagSpec {
	specs := make(map[string]FlagSpec)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return specs
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("flag")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		spec := FlagSpec{ConsumesValue: consumesValue(field.Type)}
		specs["--"+name] = spec
		if short := field.Tag.Get("short"); short != "" {
			specs["-"+short] = spec
		}
	}
	return specs
}

func consumesValue(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() != reflect.Bool
}

// RequireNoArgs rejects stray positional arguments.
func RequireNoArgs(subcmd string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("'%s' takes no arguments, got %q", subcmd, strings.Join(args, " "))
	}
	return nil
}
