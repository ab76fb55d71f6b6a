// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version reports the build version of cmdr.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

// Info is the machine readable form of the version command.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Go      string `json:"go"`
}

// Version returns the release version if set, otherwise falls back to the commit hash.
func Version() string {
	if v := strings.TrimSpace(buildVersion); v != "" {
		return v
	}
	return Commit()
}

// Semver parses Version. It reports false for development builds that
// carry only a commit hash.
func Semver() (*semver.Version, bool) {
	v, err := semver.NewVersion(Version())
	if err != nil {
		return nil, false
	}
	return v, true
}

// Commit returns the commit hash of the current build.
func Commit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var dirty bool
	var commit string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "dev"
	}

	if len(commit) >= 9 {
		commit = commit[:9]
	}
	if dirty {
		commit += "+dirty"
	}
	return commit
}

// GetInfo returns the version, commit and Go toolchain of the running binary.
func GetInfo() Info {
	return Info{
		Version: Version(),
		Commit:  Commit(),
		Go:      runtime.Version(),
	}
}
