// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codecutil opens batch input that may be zstd compressed.
package codecutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame header every zstd stream starts with.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// NewReader returns a reader over r that transparently decompresses zstd
// input. Plain input is passed through unchanged.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read input header: %w", err)
	}
	if !bytes.Equal(head, zstdMagic) {
		return io.NopCloser(br), nil
	}
	decoder, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return decoder.IOReadCloser(), nil
}

type fileReader struct {
	io.ReadCloser
	f *os.File
}

func (r *fileReader) Close() error {
	r.ReadCloser.Close()
	return r.f.Close()
}

// OpenInput opens path for reading with NewReader. The path "-" reads
// standard input.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return NewReader(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	rc, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{ReadCloser: rc, f: f}, nil
}
