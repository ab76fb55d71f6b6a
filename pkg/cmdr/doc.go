// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdr parses command-line arguments from a single docopt-like usage
// line.
//
// The usage line names the program followed by its declarations, in any
// order:
//   - Arguments: <NAME>, or <NAME>... to collect every value
//   - Flags: -v, --version or --version or -v
//   - Options: -q, --question=<QUESTION> or --question=<QUESTION> or -q=<QUESTION>,
//     with an optional trailing "..." to collect every value
//
// # Basic Usage
//
//	u, err := cmdr.Derive("hello-world <NAME>... -q, --question=<QUESTION> -v, --version -h, --help")
//	if err != nil {
//	    log.Fatal(err) // the usage line itself is wrong
//	}
//	fields := u.Match(os.Args[1:])
//	if fields.Bool("help") {
//	    fmt.Println(u)
//	    return
//	}
//	fmt.Println(fields.Strings("name"))
//
// # Field Keys
//
// Every declaration is stored in the Fields map under its camelCase name:
// <QUESTION-ID> becomes "questionId" and --dry-run becomes "dryRun". Flags
// default to false, single options and arguments to nil and multiple ones to
// an empty []string.
//
// # Matching
//
// Each input token is tried as an option, then as a flag, then as a
// positional argument. An option takes its value from the same token
// (--question=value) or from the next one (--question value); a token used
// as a value is never matched again. Tokens that match nothing are ignored
// by Match and reported by MatchStrict.
//
// A positional token goes to the first declared argument that accepts it, so
// with "cp <SRC> <DST>" every value lands in src. MatchPositional fills the
// arguments in declaration order instead.
//
// A Usage is immutable and may be shared between goroutines.
package cmdr
