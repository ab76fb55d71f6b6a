// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package version

import (
	"runtime"
	"testing"
)

func TestVersion(t *testing.T) {
	old := buildVersion
	defer func() { buildVersion = old }()

	buildVersion = " v1.4.0 "
	if got := Version(); got != "v1.4.0" {
		t.Errorf("Version() = %q, want %q", got, "v1.4.0")
	}
	v, ok := Semver()
	if !ok || v.String() != "1.4.0" {
		t.Errorf("Semver() = %v, %v", v, ok)
	}

	buildVersion = ""
	if got := Version(); got != Commit() {
		t.Errorf("Version() = %q, want commit %q", got, Commit())
	}

	buildVersion = "not-a-version"
	if _, ok := Semver(); ok {
		t.Error("Semver() parsed a non-version string")
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Go != runtime.Version() || info.Commit == "" || info.Version == "" {
		t.Errorf("GetInfo() = %+v", info)
	}
}
