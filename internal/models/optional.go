package models

import (
	"bytes"
	"encoding/json"
)

// Optional marks a snapshot section that the data collector may not have produced.
// A JSON null or a missing field decodes to Absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Present wraps a value that exists.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Absent returns an empty Optional.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// MarshalJSON encodes Absent as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as Absent and anything else as Present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Present(v)
	return nil
}

// JSONSchemaAlias makes schema reflection describe the wrapped type.
func (Optional[T]) JSONSchemaAlias() any {
	var v T
	return v
}
