// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/state/statetest"
)

func TestKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := statetest.NewInMemoryStore()

	names, err := ListKeys(ctx, store)
	require.NoError(err)
	require.Empty(names)

	_, _, err = GetActiveKey(ctx, store)
	require.ErrorIs(err, ErrNoActiveKey)

	bob, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	alice, err := ed25519.GeneratePrivateKey()
	require.NoError(err)

	require.NoError(SetKey(ctx, store, "bob", bob))
	require.NoError(SetKey(ctx, store, "alice", alice))
	require.ErrorIs(SetKey(ctx, store, "bob", alice), ErrDuplicateKeyName)

	names, err = ListKeys(ctx, store)
	require.NoError(err)
	require.Equal([]string{"alice", "bob"}, names)

	priv, ok, err := GetKey(ctx, store, "bob")
	require.NoError(err)
	require.True(ok)
	require.Equal(bob, priv)

	_, ok, err = GetKey(ctx, store, "carol")
	require.NoError(err)
	require.False(ok)

	require.ErrorIs(SetActiveKey(ctx, store, "carol"), ErrKeyNotFound)
	require.NoError(SetActiveKey(ctx, store, "alice"))
	name, priv, err := GetActiveKey(ctx, store)
	require.NoError(err)
	require.Equal("alice", name)
	require.Equal(alice, priv)
}

func TestCorruptKey(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := statetest.NewInMemoryStore()

	require.NoError(store.Insert(ctx, KeyKey("bob"), []byte{1, 2, 3}))
	_, _, err := GetKey(ctx, store, "bob")
	require.ErrorIs(err, ErrCorruptKey)
}
