// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/yeetrun/cmdr/pkg/batch"
	"github.com/yeetrun/cmdr/pkg/cli"
	"github.com/yeetrun/cmdr/pkg/cmdr"
	"github.com/yeetrun/cmdr/pkg/codecutil"
	"github.com/yeetrun/cmdr/pkg/config"
	"github.com/yeetrun/cmdr/pkg/env"
	"github.com/yeetrun/cmdr/pkg/render"
	"github.com/yeetrun/cmdr/pkg/version"
)

var errNoUsage = errors.New("no usage string")

// loadConfig returns the project config, or an empty one when none exists.
func (a *app) loadConfig() (*config.Config, error) {
	loc, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return &config.Config{}, nil
	}
	log.Printf("using config %s", loc.Path)
	if _, ok := version.Semver(); ok {
		if err := loc.CheckVersion(version.Version()); err != nil {
			return nil, err
		}
	} else if loc.Config.Requires != "" {
		log.Printf("skipping requires %q for development build %s", loc.Config.Requires, version.Version())
	}
	return loc.Config, nil
}

func deriveUsage(flagUsage string, cfg *config.Config) (*cmdr.Usage, error) {
	usage := flagUsage
	if usage == "" {
		usage = cfg.Usage
	}
	if usage == "" {
		return nil, &usageError{err: errNoUsage, hint: "pass --usage or set usage in " + config.FileName}
	}
	u, err := cmdr.Derive(usage)
	if err != nil {
		return nil, err
	}
	log.Printf("derived %q with %d fields", u.Name, len(u.Keys()))
	return u, nil
}

func outputFormat(flagFormat string, cfg *config.Config) (render.Format, error) {
	if flagFormat != "" {
		return render.ParseFormat(flagFormat)
	}
	return render.ParseFormat(cfg.Format)
}

func (a *app) handleMatch(ctx context.Context, args []string) error {
	flags, tokens, err := cli.ParseMatch(a.subcommandArgs(args))
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	u, err := deriveUsage(flags.Usage, cfg)
	if err != nil {
		return err
	}
	format, err := outputFormat(flags.Format, cfg)
	if err != nil {
		return err
	}

	var fields cmdr.Fields
	switch {
	case flags.Strict || cfg.Strict:
		fields, err = u.MatchStrict(tokens)
		if err != nil {
			return fmt.Errorf("match failed: %w", err)
		}
		if flags.Positional {
			fields = u.MatchPositional(tokens)
		}
	case flags.Positional:
		fields = u.MatchPositional(tokens)
	default:
		fields = u.Match(tokens)
	}

	if flags.EnvFile != "" {
		if err := env.Write(flags.EnvFile, flags.Prefix, u.Keys(), fields); err != nil {
			return err
		}
		log.Printf("wrote %s", flags.EnvFile)
	}

	enc := render.NewEncoder(a.stdout, format, u.Keys())
	enc.EnvPrefix = flags.Prefix
	if err := enc.Encode(fields); err != nil {
		return fmt.Errorf("failed to write fields: %w", err)
	}
	return enc.Close()
}

func (a *app) handleInspect(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseInspect(a.subcommandArgs(args))
	if err != nil {
		return err
	}
	if err := cli.RequireNoArgs(cli.CommandInspect, rest); err != nil {
		return err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	u, err := deriveUsage(flags.Usage, cfg)
	if err != nil {
		return err
	}
	if flags.Keys {
		for _, k := range u.Keys() {
			fmt.Fprintln(a.stdout, k)
		}
		return nil
	}
	_, err = io.WriteString(a.stdout, u.Help())
	return err
}

func (a *app) handleBatch(ctx context.Context, args []string) error {
	flags, rest, err := cli.ParseBatch(a.subcommandArgs(args))
	if err != nil {
		return err
	}
	if err := cli.RequireNoArgs(cli.CommandBatch, rest); err != nil {
		return err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	u, err := deriveUsage(flags.Usage, cfg)
	if err != nil {
		return err
	}
	format, err := outputFormat(flags.Format, cfg)
	if err != nil {
		return err
	}

	var in io.ReadCloser
	if flags.Input == "" || flags.Input == "-" {
		in, err = codecutil.NewReader(a.stdin)
	} else {
		in, err = codecutil.OpenInput(flags.Input)
	}
	if err != nil {
		return err
	}
	defer in.Close()

	results, err := batch.Run(ctx, u, in, batch.Options{
		Jobs:   flags.Jobs,
		Strict: flags.Strict || cfg.Strict,
	})
	if err != nil {
		return err
	}
	log.Printf("matched %d lines", len(results))

	enc := render.NewEncoder(a.stdout, format, u.Keys())
	enc.SetStream(true)
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			printCLIError(a.stderr, r.Err, a.noColor)
			if r.Tokens != nil {
				fmt.Fprintf(a.stderr, "  tokens: %q\n", r.Tokens)
			}
			continue
		}
		if err := enc.Encode(r.Fields); err != nil {
			return fmt.Errorf("failed to write line %d: %w", r.Line, err)
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed", failed, len(results))
	}
	return nil
}

func (a *app) handleVersion(ctx context.Context, args []string) error {
	flags, _, err := cli.ParseVersion(a.subcommandArgs(args))
	if err != nil {
		return err
	}
	if flags.JSON {
		return json.NewEncoder(a.stdout).Encode(version.GetInfo())
	}
	_, err = fmt.Fprintln(a.stdout, version.Version())
	return err
}
