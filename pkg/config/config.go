// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the cmdr.toml project file that supplies defaults for
// the cmdr tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

const (
	// FileName is the name looked up in the working directory and its
	// parents.
	FileName = "cmdr.toml"
	// EnvVar names an explicit config file and disables discovery.
	EnvVar = "CMDR_CONFIG"

	currentVersion = 1
)

// Config is the decoded form of cmdr.toml.
type Config struct {
	Version  int    `toml:"version,omitempty"`
	Usage    string `toml:"usage,omitempty"`
	Format   string `toml:"format,omitempty"`
	Strict   bool   `toml:"strict,omitempty"`
	Requires string `toml:"requires,omitempty"`
}

// Location is a loaded config together with where it came from.
type Location struct {
	Path   string
	Config *Config
}

// VersionError reports a config whose requires constraint rejects the
// running tool version.
type VersionError struct {
	Path       string
	Constraint string
	Version    string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s requires cmdr %s, running %s", e.Path, e.Constraint, e.Version)
}

// Load resolves the config for the tool. An explicit path wins, then the
// CMDR_CONFIG environment variable, then the nearest cmdr.toml at or above
// the working directory. It returns nil, nil when no file is found by
// discovery. Explicit paths must exist.
func Load(explicit string) (*Location, error) {
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvVar))
	}
	if explicit != "" {
		return loadFile(explicit)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFromDir(cwd)
}

// LoadFromDir walks up from startDir looking for cmdr.toml.
func LoadFromDir(startDir string) (*Location, error) {
	path, err := findPath(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return loadFile(path)
}

func loadFile(path string) (*Location, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Version == 0 {
		cfg.Version = currentVersion
	}
	if cfg.Version > currentVersion {
		return nil, fmt.Errorf("%s: unsupported config version %d", path, cfg.Version)
	}
	return &Location{Path: path, Config: &cfg}, nil
}

func findPath(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// CheckVersion verifies that version satisfies the config's requires
// constraint. An empty constraint accepts any version.
func (l *Location) CheckVersion(version string) error {
	if l == nil || l.Config == nil || strings.TrimSpace(l.Config.Requires) == "" {
		return nil
	}
	c, err := semver.NewConstraint(l.Config.Requires)
	if err != nil {
		return fmt.Errorf("%s: invalid requires %q: %w", l.Path, l.Config.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", version, err)
	}
	if !c.Check(v) {
		return &VersionError{Path: l.Path, Constraint: l.Config.Requires, Version: v.String()}
	}
	return nil
}
