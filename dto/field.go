package dto

import (
	"bytes"
	"encoding/json"
)

// Field is an optional request value with three states: absent, explicit
// null, and set. Absent fields are left out of the encoded payload so the API
// keeps the stored value; null asks the API to clear it.
type Field[T any] struct {
	value   T
	present bool
	null    bool
}

// Set returns a field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// Null returns a field that clears the stored value.
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// SetOrNull returns Set(*v) for a non-nil pointer and Null otherwise.
func SetOrNull[T any](v *T) Field[T] {
	if v == nil {
		return Null[T]()
	}
	return Set(*v)
}

// Present reports whether the field is part of the payload, as a value or as null.
func (f Field[T]) Present() bool { return f.present }

// IsNull reports whether the field explicitly clears the value.
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Get returns the value and whether one is set.
func (f Field[T]) Get() (T, bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}
