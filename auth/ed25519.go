// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/utils"
)

// ED25519 proves that the holder of [Signer]'s private key produced a
// message. The caller identity attributed to the message is derived from
// [Signer].
type ED25519 struct {
	Signer    ed25519.PublicKey
	Signature ed25519.Signature
}

// SignED25519 signs [msg] with [priv].
func SignED25519(msg []byte, priv ed25519.PrivateKey) *ED25519 {
	return &ED25519{
		Signer:    priv.PublicKey(),
		Signature: ed25519.Sign(msg, priv),
	}
}

func (d *ED25519) Verify(_ context.Context, msg []byte) error {
	if !ed25519.Verify(msg, d.Signer, d.Signature) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

func (d *ED25519) Actor() codec.Address {
	return NewED25519Address(d.Signer)
}

// NewED25519Address returns the caller identity of [pk].
func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	return codec.CreateAddress(consts.ED25519ID, utils.ToID(pk[:]))
}
