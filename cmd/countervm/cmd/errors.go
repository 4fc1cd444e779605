// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidArgs         = errors.New("invalid args")
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidEndpoint     = errors.New("invalid endpoint")
	ErrInvalidOperator     = errors.New("invalid assertion operator")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrUnknownQuery        = errors.New("unknown query")
)
