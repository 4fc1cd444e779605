// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto"
	"github.com/ava-labs/countervm/crypto/ed25519"
)

func TestED25519(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)

	msg := []byte(`{"reset":{"count":5}}`)
	a := SignED25519(msg, priv)
	require.NoError(a.Verify(ctx, msg))
	require.ErrorIs(a.Verify(ctx, []byte(`{"reset":{"count":6}}`)), crypto.ErrInvalidSignature)

	actor := a.Actor()
	require.Equal(consts.ED25519ID, actor[0])
	require.Equal(NewED25519Address(priv.PublicKey()), actor)
}

func TestED25519DistinctActors(t *testing.T) {
	require := require.New(t)

	p1, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	p2, err := ed25519.GeneratePrivateKey()
	require.NoError(err)

	require.NotEqual(NewED25519Address(p1.PublicKey()), NewED25519Address(p2.PublicKey()))
}
