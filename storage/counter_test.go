// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec/codectest"
	"github.com/ava-labs/countervm/state/statetest"
)

func TestCounterRecord(t *testing.T) {
	owner := codectest.NewRandomAddress()
	tests := []struct {
		name    string
		counter Counter
	}{
		{
			name:    "zero",
			counter: Counter{Value: 0, Owner: owner},
		},
		{
			name:    "negative",
			counter: Counter{Value: -1, Owner: owner},
		},
		{
			name:    "max",
			counter: Counter{Value: math.MaxInt32, Owner: owner, WasReset: true},
		},
		{
			name:    "min",
			counter: Counter{Value: math.MinInt32, Owner: owner, WasReset: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			b, err := tt.counter.Marshal()
			require.NoError(err)
			require.Len(b, CounterRecordLen)
			require.Equal(uint32(tt.counter.Value), binary.LittleEndian.Uint32(b[:4]))
			require.Equal(tt.counter.Owner[:], b[4:37])

			c, err := UnmarshalCounter(b)
			require.NoError(err)
			require.Equal(tt.counter, *c)
		})
	}
}

func TestUnmarshalCounterCorrupt(t *testing.T) {
	require := require.New(t)

	_, err := UnmarshalCounter([]byte{1, 2, 3})
	require.ErrorIs(err, ErrCorruptRecord)
}

func TestGetSetCounter(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := statetest.NewInMemoryStore()

	_, exists, err := GetCounter(ctx, store)
	require.NoError(err)
	require.False(exists)

	want := &Counter{Value: 17, Owner: codectest.NewRandomAddress()}
	require.NoError(SetCounter(ctx, store, want))
	require.Len(store.Storage, 1)

	got, exists, err := GetCounter(ctx, store)
	require.NoError(err)
	require.True(exists)
	require.Equal(want, got)
}
