// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdr

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"
)

// Decode copies the matched values into the struct pointed to by dst.
//
// Each exported field is looked up by its `cmdr` tag, or by the field name
// with its first letter lower-cased. A tag of "-" skips the field. Fields
// whose key was not given are left untouched. Strings convert to numbers,
// bools, time.Duration and url.URL; a scalar field given several values
// takes the last one.
//
//	type Options struct {
//	    Name     []string
//	    Question string
//	    Count    int    `cmdr:"count"`
//	    Timeout  *time.Duration
//	    Version  bool
//	}
//
//	var opts Options
//	if err := fields.Decode(&opts); err != nil {
//	    log.Fatal(err)
//	}
func (f Fields) Decode(dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.New("decode destination must be a non-nil pointer to a struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("decode destination must point to a struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		key := fieldKey(sf)
		if key == "" {
			continue
		}
		raw, ok := f[key]
		if !ok || raw == nil {
			continue
		}
		if err := decodeValue(field, raw); err != nil {
			return &DecodeError{Key: key, Field: sf.Name, Value: fmt.Sprint(raw), Err: err}
		}
	}
	return nil
}

func fieldKey(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("cmdr"); ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	r, size := utf8.DecodeRuneInString(sf.Name)
	return string(unicode.ToLower(r)) + sf.Name[size:]
}

var valueHooks = mapstructure.ComposeDecodeHookFunc(
	mapstructure.DecodeHookFuncType(lastValueHook),
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.DecodeHookFuncType(stringToURLHook),
)

// decodeValue converts one field map value into field.
func decodeValue(field reflect.Value, raw any) error {
	switch raw.(type) {
	case bool, string, []string:
	default:
		return fmt.Errorf("unsupported field map value %T", raw)
	}
	if values, ok := raw.([]string); ok && len(values) == 0 && !isList(field.Type()) {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       valueHooks,
		WeaklyTypedInput: true,
		Result:           field.Addr().Interface(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// lastValueHook hands a scalar destination the last of several values.
func lastValueHook(from, to reflect.Type, data any) (any, error) {
	values, ok := data.([]string)
	if !ok {
		return data, nil
	}
	if isList(to) || len(values) == 0 {
		return data, nil
	}
	return values[len(values)-1], nil
}

func isList(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func stringToURLHook(from, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to != reflect.TypeOf(url.URL{}) {
		return data, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", s, err)
	}
	return *u, nil
}
