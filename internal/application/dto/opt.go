package dto

import "encoding/json"

// Opt is a tri-state patch field: absent, explicitly null, or set to a
// value. The zero Opt is absent and marshals to nothing under omitzero.
type Opt[T any] struct {
	Defined bool
	Value   *T
}

// Set returns a present field carrying the given value.
func Set[T any](v T) Opt[T] {
	return Opt[T]{Defined: true, Value: &v}
}

// Null returns a present field that clears the value server-side.
func Null[T any]() Opt[T] {
	return Opt[T]{Defined: true}
}

// IsZero reports whether the field is absent; used by json omitzero.
func (o Opt[T]) IsZero() bool {
	return !o.Defined
}

// Equals compares the field against a current pointer value, treating an
// absent field as equal to anything.
func (o Opt[T]) Equals(current *T, eq func(a, b T) bool) bool {
	if !o.Defined {
		return true
	}
	if o.Value == nil || current == nil {
		return o.Value == nil && current == nil
	}
	return eq(*o.Value, *current)
}

// MarshalJSON writes null for a cleared field, else the value.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// UnmarshalJSON marks the field present; a JSON null clears it.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Defined = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
