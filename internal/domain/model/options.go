package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidOptions = errors.New("options must map names to a string or a list of strings")

// OptionValue is either a single string or a list of strings.
type OptionValue struct {
	str    string
	list   []string
	isList bool
}

func StringOption(s string) OptionValue {
	return OptionValue{str: s}
}

func ListOption(values ...string) OptionValue {
	list := make([]string, len(values))
	copy(list, values)
	return OptionValue{list: list, isList: true}
}

func (v OptionValue) IsList() bool { return v.isList }

// Str returns the string variant.
func (v OptionValue) Str() (string, bool) {
	return v.str, !v.isList
}

// List returns the list variant.
func (v OptionValue) List() ([]string, bool) {
	if !v.isList {
		return nil, false
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out, true
}

// Equal compares variant and contents. List order is significant.
func (v OptionValue) Equal(o OptionValue) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return v.str == o.str
	}
	if len(v.list) != len(o.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != o.list[i] {
			return false
		}
	}
	return true
}

func (v OptionValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.str)
}

func (v *OptionValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ErrInvalidOptions
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ErrInvalidOptions
		}
		*v = StringOption(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return ErrInvalidOptions
		}
		*v = ListOption(list...)
		return nil
	default:
		return ErrInvalidOptions
	}
}

type OptionEntry struct {
	Key   string
	Value OptionValue
}

// Options is an insertion-ordered map of option name to value.
// A nil Options is absent (JSON null); an empty non-nil Options is {}.
type Options []OptionEntry

func (o Options) Get(key string) (OptionValue, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}
	return OptionValue{}, false
}

// Set replaces an existing key in place or appends a new one.
func (o Options) Set(key string, value OptionValue) Options {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	if o == nil {
		o = Options{}
	}
	return append(o, OptionEntry{Key: key, Value: value})
}

// Equal treats two maps as equal when they hold the same keys with equal values,
// regardless of key order. nil only equals nil.
func (o Options) Equal(other Options) bool {
	if (o == nil) != (other == nil) {
		return false
	}
	if len(o) != len(other) {
		return false
	}
	for _, e := range o {
		v, ok := other.Get(e.Key)
		if !ok || !v.Equal(e.Value) {
			return false
		}
	}
	return true
}

func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Options) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return ErrInvalidOptions
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrInvalidOptions
	}

	out := Options{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return ErrInvalidOptions
		}
		key, ok := tok.(string)
		if !ok {
			return ErrInvalidOptions
		}
		if _, dup := out.Get(key); dup {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidOptions, key)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return ErrInvalidOptions
		}
		var v OptionValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("%w: key %q", ErrInvalidOptions, key)
		}
		out = append(out, OptionEntry{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return ErrInvalidOptions
	}

	*o = out
	return nil
}

// Value stores options as JSON text; nil becomes NULL.
func (o Options) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	b, err := o.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *Options) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*o = nil
		return nil
	case []byte:
		return o.UnmarshalJSON(v)
	case string:
		return o.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("options: unsupported scan type %T", src)
	}
}
