// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/yeetrun/cmdr/pkg/cmdr"
	"tailscale.com/util/must"
)

var usage = must.Get(cmdr.Derive("hello-world <NAME>... -q, --question=<QUESTION> -v, --version -h, --help"))

type options struct {
	Name     []string
	Question string
	Version  bool
	Help     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	if err := usage.Match(args).Decode(&opts); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	switch {
	case opts.Help:
		fmt.Fprintln(stdout, usage.String())
		return 0
	case opts.Version:
		fmt.Fprintln(stdout, "Version: 0.0.0")
		return 0
	case len(opts.Name) == 0:
		fmt.Fprintln(stderr, color.RedString("Please, specify at least one <NAME>"))
		return 1
	}
	fmt.Fprintf(stdout, "Hello, %s!\n", joinNames(opts.Name))
	if opts.Question != "" {
		fmt.Fprintf(stdout, "Here's a question: %s\n", opts.Question)
	}
	return 0
}

// joinNames joins names as "A, B and C".
func joinNames(names []string) string {
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
