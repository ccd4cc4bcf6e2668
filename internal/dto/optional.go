package dto

import "encoding/json"

// Optional is a request field that remembers whether its key was present in the
// JSON body and whether it was an explicit null. Decoding never touches an
// Optional whose key is absent, so the zero value means "not supplied".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a supplied, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil when the field was not supplied, otherwise a pointer to its
// value (the zero value for an explicit null).
func (o Optional[T]) Ptr() *T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
