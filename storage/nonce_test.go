// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec/codectest"
	"github.com/ava-labs/countervm/state/statetest"
)

func TestConsumeNonce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := statetest.NewInMemoryStore()
	a := codectest.NewRandomAddress()
	b := codectest.NewRandomAddress()

	n, err := GetNonce(ctx, store, a)
	require.NoError(err)
	require.Zero(n)

	require.ErrorIs(ConsumeNonce(ctx, store, a, 1), ErrInvalidNonce)
	require.Empty(store.Storage)

	require.NoError(ConsumeNonce(ctx, store, a, 0))
	require.ErrorIs(ConsumeNonce(ctx, store, a, 0), ErrInvalidNonce)
	require.NoError(ConsumeNonce(ctx, store, a, 1))

	n, err = GetNonce(ctx, store, a)
	require.NoError(err)
	require.Equal(uint64(2), n)

	// nonces are tracked per address
	n, err = GetNonce(ctx, store, b)
	require.NoError(err)
	require.Zero(n)
}

func TestCorruptNonce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := statetest.NewInMemoryStore()
	a := codectest.NewRandomAddress()

	require.NoError(store.Insert(ctx, NonceKey(a), []byte{1, 2, 3}))
	_, err := GetNonce(ctx, store, a)
	require.ErrorIs(err, ErrCorruptNonce)
}
