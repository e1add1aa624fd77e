package model

import (
	"bytes"
	"encoding/json"
)

// Optional marks whether a field was present in a partial update.
// Set without Null means "change to Value"; Set with Null means an explicit null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports a non-null value was supplied.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}
