// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFieldsDecode(t *testing.T) {
	type Options struct {
		Name     []string
		Question string
		Version  bool
		Help     *bool
		Count    int            `cmdr:"count"`
		Ratio    float64        `cmdr:"ratio"`
		Timeout  *time.Duration `cmdr:"timeout"`
		Retries  uint8          `cmdr:"retries"`
		Ignored  string         `cmdr:"-"`
		Missing  *string        `cmdr:"missing"`
		unexp    string
	}

	u := mustDerive(t, "app <NAME>... -q, --question=<Q> -v, --version -h, --help --count=<N> --ratio=<R> --timeout=<T> --retries=<R> --missing=<M>")
	fields := u.Match([]string{
		"Alice", "Bob",
		"--question", "Why?",
		"-v",
		"--count=3",
		"--ratio", "0.5",
		"--timeout", "1m30s",
		"--retries", "7",
	})

	opts := Options{Ignored: "keep"}
	if err := fields.Decode(&opts); err != nil {
		t.Fatalf("Decode error = %v", err)
	}

	timeout := 90 * time.Second
	help := false
	want := Options{
		Name:     []string{"Alice", "Bob"},
		Question: "Why?",
		Version:  true,
		Help:     &help,
		Count:    3,
		Ratio:    0.5,
		Timeout:  &timeout,
		Retries:  7,
		Ignored:  "keep",
	}
	if diff := cmp.Diff(want, opts, cmp.AllowUnexported(Options{})); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldsDecodeScalarFromMultiple(t *testing.T) {
	var dst struct {
		File string
	}
	if err := (Fields{"file": []string{"a", "b"}}).Decode(&dst); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if dst.File != "b" {
		t.Errorf("File = %q, want %q", dst.File, "b")
	}
}

func TestFieldsDecodeConversions(t *testing.T) {
	type Options struct {
		Ports    []int
		Endpoint url.URL
		Proxy    *url.URL
		Delay    time.Duration
		File     string
		Tag      *string
	}
	fields := Fields{
		"ports":    []string{"80", "443"},
		"endpoint": "https://example.com/a",
		"proxy":    "http://proxy:3128",
		"delay":    []string{"1s", "250ms"},
		"file":     []string{},
		"tag":      []string{"v1"},
	}
	opts := Options{File: "keep"}
	if err := fields.Decode(&opts); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	tag := "v1"
	want := Options{
		Ports:    []int{80, 443},
		Endpoint: url.URL{Scheme: "https", Host: "example.com", Path: "/a"},
		Proxy:    &url.URL{Scheme: "http", Host: "proxy:3128"},
		Delay:    250 * time.Millisecond,
		File:     "keep",
		Tag:      &tag,
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}

	var bad struct{ Ports []int }
	if err := (Fields{"ports": []string{"1", "x"}}).Decode(&bad); err == nil {
		t.Error("Decode of a non-numeric port succeeded, want error")
	}
}

func TestFieldsDecodeErrors(t *testing.T) {
	var dst struct {
		Count int
	}
	err := (Fields{"count": "many"}).Decode(&dst)
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("Decode error = %v, want *DecodeError", err)
	}
	if derr.Key != "count" || derr.Field != "Count" || derr.Value != "many" {
		t.Errorf("DecodeError = %+v", derr)
	}
	if derr.Err == nil {
		t.Error("DecodeError.Err is nil")
	}

	if err := (Fields{}).Decode(dst); err == nil {
		t.Error("Decode into non-pointer succeeded, want error")
	}
	var n int
	if err := (Fields{}).Decode(&n); err == nil {
		t.Error("Decode into non-struct succeeded, want error")
	}
}
