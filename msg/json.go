// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msg

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ava-labs/countervm/codec"
)

// decodeStrict unmarshals the object [raw] into a new T. Every name in
// [fields] must be present and no other key is accepted.
func decodeStrict[T any](raw json.RawMessage, fields ...string) (*T, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: expected an object", ErrMissingField)
	}
	for _, f := range fields {
		if v, ok := obj[f]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: %q", ErrMissingField, f)
		}
	}
	if len(obj) != len(fields) {
		for k := range obj {
			if !slices.Contains(fields, k) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, k)
			}
		}
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return v, nil
}

// marshalTagged writes {"<name>": <payload>}.
func marshalTagged(name string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{name: payload})
}

// unmarshalTagged splits {"<name>": <payload>} and decodes the payload with
// the variant registered under name.
func unmarshalTagged[T any](p *codec.TypeParser[T], b []byte) (T, error) {
	var zero T
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return zero, err
	}
	if len(obj) != 1 {
		return zero, fmt.Errorf("%w: got %d", ErrNotSingleTag, len(obj))
	}
	for name, payload := range obj {
		d, ok := p.LookupName(name)
		if !ok {
			return zero, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
		}
		return d.JSON(payload)
	}
	return zero, ErrNotSingleTag
}

// unpackTagged reads a type ID followed by the variant's fields and rejects
// trailing input.
func unpackTagged[T any](p *codec.TypeParser[T], b []byte) (T, error) {
	var zero T
	r := codec.NewReader(b, len(b))
	typeID := r.UnpackByte()
	if err := r.Err(); err != nil {
		return zero, err
	}
	d, ok := p.LookupIndex(typeID)
	if !ok {
		return zero, fmt.Errorf("%w: type ID %d", ErrUnknownVariant, typeID)
	}
	v, err := d.Binary(r)
	if err != nil {
		return zero, err
	}
	if err := r.Done(); err != nil {
		return zero, err
	}
	return v, nil
}
