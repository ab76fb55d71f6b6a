// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render writes matched fields in the output formats supported by
// the cmdr tool.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/cmdr/pkg/cmdr"
	"github.com/yeetrun/cmdr/pkg/env"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	Plain      Format = "plain"
	JSON       Format = "json"
	JSONPretty Format = "json-pretty"
	YAML       Format = "yaml"
	TOML       Format = "toml"
	Env        Format = "env"
)

var formats = []Format{Plain, JSON, JSONPretty, YAML, TOML, Env}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// ParseFormat validates s. The empty string selects Plain.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return Plain, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(formats, f) {
		return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// An Encoder writes a sequence of field maps. Keys fixes the order in which
// fields are written where the format preserves order.
type Encoder struct {
	// EnvPrefix is prepended to variable names in the env format.
	EnvPrefix string

	w      io.Writer
	format Format
	keys   []string
	stream bool
	n      int
	yaml   *yaml.Encoder
}

// NewEncoder returns an encoder for a single record. Call SetStream before
// the first Encode to write several.
func NewEncoder(w io.Writer, format Format, keys []string) *Encoder {
	return &Encoder{w: w, format: format, keys: keys}
}

// SetStream marks the output as holding many records. TOML records are then
// written as an array of [[results]] tables and the line based formats are
// separated by blank lines.
func (e *Encoder) SetStream(stream bool) {
	e.stream = stream
}

// Encode writes one record.
func (e *Encoder) Encode(fields cmdr.Fields) error {
	defer func() { e.n++ }()
	if e.n > 0 && (e.format == Plain || e.format == Env) {
		if _, err := io.WriteString(e.w, "\n"); err != nil {
			return err
		}
	}
	switch e.format {
	case Plain, "":
		return e.plain(fields)
	case JSON:
		return json.NewEncoder(e.w).Encode(e.ordered(fields))
	case JSONPretty:
		enc := json.NewEncoder(e.w)
		enc.SetIndent("", "  ")
		return enc.Encode(e.ordered(fields))
	case YAML:
		if e.yaml == nil {
			e.yaml = yaml.NewEncoder(e.w)
			e.yaml.SetIndent(2)
		}
		return e.yaml.Encode(e.yamlNode(fields))
	case TOML:
		return e.toml(fields)
	case Env:
		return env.Marshal(e.w, e.EnvPrefix, e.keys, fields)
	}
	return fmt.Errorf("unknown format %q", e.format)
}

// Close flushes buffered output.
func (e *Encoder) Close() error {
	if e.yaml != nil {
		return e.yaml.Close()
	}
	return nil
}

// Write encodes a single record to w.
func Write(w io.Writer, format Format, keys []string, fields cmdr.Fields) error {
	e := NewEncoder(w, format, keys)
	if err := e.Encode(fields); err != nil {
		return err
	}
	return e.Close()
}

// ordered returns the keyed subset of fields as a JSON object whose members
// follow the encoder's keys. Keys absent from fields are written as null.
func (e *Encoder) ordered(fields cmdr.Fields) orderedFields {
	return orderedFields{keys: e.keys, fields: fields}
}

type orderedFields struct {
	keys   []string
	fields cmdr.Fields
}

func (o orderedFields) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.fields[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (e *Encoder) plain(fields cmdr.Fields) error {
	width := 0
	for _, k := range e.keys {
		width = max(width, len(k))
	}
	for _, k := range e.keys {
		if _, err := fmt.Fprintf(e.w, "%-*s  %s\n", width, k, plainValue(fields[k])); err != nil {
			return err
		}
	}
	return nil
}

func plainValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}
	return fmt.Sprint(v)
}

func (e *Encoder) yamlNode(fields cmdr.Fields) *yaml.Node {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range e.keys {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			yamlValue(fields[k]))
	}
	return doc
}

func yamlValue(v any) *yaml.Node {
	switch v := v.(type) {
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		if len(v) == 0 {
			seq.Style = yaml.FlowStyle
		}
		for _, s := range v {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
		}
		return seq
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// toml omits undefined fields since TOML has no null.
func (e *Encoder) toml(fields cmdr.Fields) error {
	table := make(map[string]any, len(e.keys))
	for _, k := range e.keys {
		if v := fields[k]; v != nil {
			table[k] = v
		}
	}
	var doc any = table
	if e.stream {
		if e.n > 0 {
			if _, err := io.WriteString(e.w, "\n"); err != nil {
				return err
			}
		}
		doc = map[string]any{"results": []map[string]any{table}}
	}
	return toml.NewEncoder(e.w).Encode(doc)
}
