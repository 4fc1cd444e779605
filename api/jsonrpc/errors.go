// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/crypto"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/storage"
)

// errorCodes are carried in the data field of JSON-RPC errors so clients
// can restore the sentinel with errors.Is. Codes must never be reused.
var errorCodes = []struct {
	code string
	err  error
}{
	{"decode", msg.ErrDecode},
	{"unauthorized", counter.ErrUnauthorized},
	{"not_instantiated", counter.ErrNotInstantiated},
	{"already_instantiated", counter.ErrAlreadyInstantiated},
	{"invalid_nonce", storage.ErrInvalidNonce},
	{"invalid_signature", crypto.ErrInvalidSignature},
	{"invalid_public_key", crypto.ErrInvalidPublicKey},
}

// toRPCError tags [err] with the code of the first sentinel it wraps.
func toRPCError(err error) error {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return &json2.Error{
				Code:    json2.E_SERVER,
				Message: err.Error(),
				Data:    c.code,
			}
		}
	}
	return err
}

// restoreErr wraps [err] with the sentinel named by its error code.
func restoreErr(err error) error {
	var rpcErr *json2.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	code, ok := rpcErr.Data.(string)
	if !ok {
		return err
	}
	for _, c := range errorCodes {
		if c.code == code {
			return fmt.Errorf("%w: %w", c.err, err)
		}
	}
	return err
}
