// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotInstantiated     = errors.New("counter not instantiated")
	ErrAlreadyInstantiated = errors.New("counter already instantiated")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrUnknownQuery        = errors.New("unknown query")
)
