// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/state"
)

const (
	counterPrefix = 0x0

	// CounterRecordLen is the size of a borsh encoded [Counter].
	CounterRecordLen = consts.Int32Len + codec.AddressLen + consts.BoolLen
)

var ErrCorruptRecord = errors.New("corrupt counter record")

// Counter is the single persisted record.
//
// Owner is written once by instantiation and never changes. WasReset is
// only ever flipped to true, by an authorized reset.
type Counter struct {
	Value    int32
	Owner    codec.Address
	WasReset bool
}

func CounterKey() []byte {
	return []byte{counterPrefix}
}

func (c *Counter) Marshal() ([]byte, error) {
	return borsh.Serialize(*c)
}

func UnmarshalCounter(b []byte) (*Counter, error) {
	if len(b) != CounterRecordLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptRecord, CounterRecordLen, len(b))
	}
	var c Counter
	if err := borsh.Deserialize(&c, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return &c, nil
}

// GetCounter returns the stored record and whether it exists.
func GetCounter(ctx context.Context, im state.Immutable) (*Counter, bool, error) {
	v, err := im.GetValue(ctx, CounterKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	c, err := UnmarshalCounter(v)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// SetCounter writes the whole record in a single insert.
func SetCounter(ctx context.Context, mu state.Mutable, c *Counter) error {
	b, err := c.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, CounterKey(), b)
}
