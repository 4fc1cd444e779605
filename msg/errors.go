// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msg

import (
	"errors"
	"fmt"
)

var (
	ErrDecode         = errors.New("decode error")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrMissingField   = errors.New("missing field")
	ErrUnknownField   = errors.New("unknown field")
	ErrNotSingleTag   = errors.New("expected exactly one variant tag")
)

// DecodeError reports a malformed or unrecognized message. It matches
// [ErrDecode] with errors.Is and unwraps to the underlying cause.
type DecodeError struct {
	// Family is "init", "command" or "query".
	Family string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s message: %s", ErrDecode, e.Family, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (*DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func newDecodeError(family string, err error) error {
	return &DecodeError{Family: family, Err: err}
}
