// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
)

const noncePrefix = 0x4

var (
	ErrInvalidNonce = errors.New("invalid nonce")
	ErrCorruptNonce = errors.New("corrupt nonce")
)

// [noncePrefix] + [address]
func NonceKey(addr codec.Address) (k []byte) {
	k = make([]byte, 1+codec.AddressLen)
	k[0] = noncePrefix
	copy(k[1:], addr[:])
	return
}

// GetNonce returns the next nonce [addr] must sign with. Addresses that
// never signed start at zero.
func GetNonce(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	v, err := im.GetValue(ctx, NonceKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	p := codec.NewReader(v, consts.Uint64Len)
	n := p.UnpackUint64()
	if err := p.Done(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorruptNonce, err)
	}
	return n, nil
}

// ConsumeNonce checks that [nonce] is the next nonce of [addr] and advances
// it. A stale or future nonce fails with [ErrInvalidNonce] and writes
// nothing.
func ConsumeNonce(ctx context.Context, mu state.Mutable, addr codec.Address, nonce uint64) error {
	next, err := GetNonce(ctx, mu, addr)
	if err != nil {
		return err
	}
	if nonce != next {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidNonce, next, nonce)
	}
	p := codec.NewWriter(consts.Uint64Len, consts.Uint64Len)
	p.PackUint64(next + 1)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, NonceKey(addr), p.Bytes())
}
