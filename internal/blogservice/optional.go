package blogservice

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a JSON key was present and, when it was, its value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v

	return nil
}

// arg is the statement argument for the optional: nil for null, the value otherwise.
func (o Optional[T]) arg() any {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}
