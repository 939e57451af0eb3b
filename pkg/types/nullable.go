package types

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks whether a field was present in a JSON body and, if so,
// whether it was an explicit null.
//
//	absent        -> Set=false
//	"field": null -> Set=true, Value=nil
//	"field": v    -> Set=true, Value=&v
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a present, explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Set = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Set = true
	n.Value = &parsed
	return nil
}

// IsNull reports an explicit null.
func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

// Present reports a supplied non-null value.
func (n Nullable[T]) Present() bool {
	return n.Set && n.Value != nil
}
