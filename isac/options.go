// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Option is a single answer option.
type Option struct {
	Key   string
	Value string
}

// Options are the answer options of a question.
// The order of the options is kept as found in the JSON document.
type Options []Option

// Get returns the value for the given key.
func (opts Options) Get(key string) (string, bool) {
	for _, o := range opts {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// Has returns true if there is an option with the given key.
func (opts Options) Has(key string) bool {
	_, ok := opts.Get(key)
	return ok
}

// Keys returns the keys in order.
func (opts Options) Keys() []string {
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = o.Key
	}
	return keys
}

// Set replaces the value of an existing key or appends a new option.
func (opts *Options) Set(key, value string) {
	for i := range *opts {
		if (*opts)[i].Key == key {
			(*opts)[i].Value = value
			return
		}
	}
	*opts = append(*opts, Option{Key: key, Value: value})
}

// MarshalJSON implements [json.Marshaler].
func (opts Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, o := range opts {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, o.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, o.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (opts *Options) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*opts = nil
		return nil
	}
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	list := make(Options, 0, len(obj))
	for _, f := range obj {
		var v any
		if err := json.Unmarshal(f.Value, &v); err != nil {
			return err
		}
		switch x := v.(type) {
		case string:
			list = append(list, Option{Key: f.Key, Value: x})
		case nil:
			list = append(list, Option{Key: f.Key})
		default:
			// Numbers and the like are kept in their JSON form.
			list = append(list, Option{Key: f.Key, Value: string(f.Value)})
		}
	}
	*opts = list
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Field is a key value pair of a JSON object.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object which keeps the order of its keys.
type Object []Field

// ErrDuplicateKey is returned if a JSON object has a key twice.
var ErrDuplicateKey = errors.New("duplicate key")

// Get returns the raw value of a key.
func (obj Object) Get(key string) (json.RawMessage, bool) {
	for _, f := range obj {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing key or appends a new field.
func (obj *Object) Set(key string, value json.RawMessage) {
	for i := range *obj {
		if (*obj)[i].Key == key {
			(*obj)[i].Value = value
			return
		}
	}
	*obj = append(*obj, Field{Key: key, Value: value})
}

// Decode unmarshals the value of a key into v.
// Missing keys and null values leave v untouched.
func (obj Object) Decode(key string, v any) error {
	raw, ok := obj.Get(key)
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (obj *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	var fields Object
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if seen[key] {
			return fmt.Errorf("%w %q", ErrDuplicateKey, key)
		}
		seen[key] = true
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*obj = fields
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (obj Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range obj {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
