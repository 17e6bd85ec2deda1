package model

import (
	"bytes"
	"encoding/json"
)

// wrapperKeys are the value keys of database/sql's Null* types, in lookup order.
var wrapperKeys = []string{"String", "Int64", "Int32", "Int16", "Byte", "Float64", "Bool", "Time", "V"}

// Optional is a value that may be absent.
//
// The backend serialises nullable columns as {"String": "...", "Valid": true}.
// Valid=false, null and a missing field all decode to an absent value.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) Present() bool {
	return o.ok
}

// OrElse returns the value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// UnmarshalJSON accepts the backend wrapper shape as well as a bare value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	*o = Optional[T]{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return err
		}
		if raw, isWrapper := wrapper["Valid"]; isWrapper {
			var valid bool
			if err := json.Unmarshal(raw, &valid); err != nil {
				return err
			}
			if !valid {
				return nil
			}
			for _, key := range wrapperKeys {
				inner, found := wrapper[key]
				if !found {
					continue
				}
				var v T
				if err := json.Unmarshal(inner, &v); err != nil {
					return err
				}
				o.value, o.ok = v, true
				return nil
			}
			return nil
		}
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	o.value, o.ok = v, true
	return nil
}

// MarshalJSON writes the value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
