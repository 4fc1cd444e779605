// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/stretchr/testify/require"
)

func TestPackerInt32(t *testing.T) {
	for _, v := range []int32{math.MinInt32, -1, 0, 1, math.MaxInt32} {
		require := require.New(t)
		wp := NewWriter(4, 4)
		wp.PackInt32(v)
		require.NoError(wp.Err())
		require.Len(wp.Bytes(), 4)

		rp := NewReader(wp.Bytes(), 4)
		require.Equal(v, rp.UnpackInt32())
		require.NoError(rp.Done())
	}
}

func TestPackerInt32BigEndian(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(4, 4)
	wp.PackInt32(-2)
	require.Equal([]byte{0xff, 0xff, 0xff, 0xfe}, wp.Bytes())
}

func TestPackerAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(addr)
	require.NoError(wp.Err())

	var unpacked Address
	rp := NewReader(wp.Bytes(), AddressLen)
	rp.UnpackAddress(&unpacked)
	require.NoError(rp.Done())
	require.Equal(addr, unpacked)
}

func TestPackerShortInput(t *testing.T) {
	require := require.New(t)
	rp := NewReader([]byte{0x01, 0x02}, 4)
	rp.UnpackInt32()
	require.ErrorIs(rp.Err(), wrappers.ErrInsufficientLength)
	require.ErrorIs(rp.Done(), wrappers.ErrInsufficientLength)
}

func TestPackerTrailingBytes(t *testing.T) {
	require := require.New(t)
	rp := NewReader([]byte{0x00, 0x00, 0x00, 0x01, 0x09}, 5)
	require.Equal(int32(1), rp.UnpackInt32())
	require.NoError(rp.Err())
	require.ErrorIs(rp.Done(), ErrTrailingBytes)
}

func TestPackerBool(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(2, 2)
	wp.PackBool(true)
	wp.PackBool(false)

	rp := NewReader(wp.Bytes(), 2)
	require.True(rp.UnpackBool())
	require.False(rp.UnpackBool())
	require.NoError(rp.Done())
}
