// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/storage"
)

func TestErrorCodes(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range errorCodes {
		t.Run(c.code, func(t *testing.T) {
			require := require.New(t)
			require.False(seen[c.code])
			seen[c.code] = true

			wrapped := fmt.Errorf("%w: detail", c.err)
			rpcErr := toRPCError(wrapped)
			var jsonErr *json2.Error
			require.ErrorAs(rpcErr, &jsonErr)
			require.Equal(c.code, jsonErr.Data)
			require.Equal(wrapped.Error(), jsonErr.Message)

			// only the code is used, not the message text
			received := fmt.Errorf("failed to decode client response: %w", &json2.Error{
				Code:    json2.E_SERVER,
				Message: "reworded",
				Data:    c.code,
			})
			require.ErrorIs(restoreErr(received), c.err)
		})
	}
}

func TestRestoreErrUnknown(t *testing.T) {
	require := require.New(t)

	plain := errors.New(counter.ErrUnauthorized.Error())
	require.NotErrorIs(restoreErr(plain), counter.ErrUnauthorized)

	unknown := &json2.Error{Code: json2.E_SERVER, Message: "x", Data: "gone"}
	require.Equal(unknown, restoreErr(unknown))

	require.NoError(restoreErr(nil))
	require.Equal(plain, toRPCError(plain))
	var jsonErr *json2.Error
	require.ErrorAs(toRPCError(storage.ErrInvalidNonce), &jsonErr)
	require.Equal("invalid_nonce", jsonErr.Data)
}
