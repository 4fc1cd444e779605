// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	typeID := byte(0)
	addrID := ids.GenerateTestID()

	addr := CreateAddress(typeID, addrID)
	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(1, ids.GenerateTestID())

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)
	require.True(strings.HasPrefix(string(addrJSONBytes), `"0x`))

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestAddressString(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	originalAddr, err := StringToAddress(addr.String())
	require.NoError(err)
	require.Equal(addr, originalAddr)

	_, err = StringToAddress("0x0102")
	require.ErrorIs(err, ErrInvalidSize)
}

func TestAddressEquality(t *testing.T) {
	require := require.New(t)
	id := ids.GenerateTestID()

	require.Equal(CreateAddress(0, id), CreateAddress(0, id))
	require.NotEqual(CreateAddress(0, id), CreateAddress(1, id))
	require.NotEqual(EmptyAddress, CreateAddress(0, id))
}

func TestAddressBech32(t *testing.T) {
	tests := []struct {
		name    string
		hrp     string
		parse   string
		wantErr error
	}{
		{
			name:  "same hrp",
			hrp:   "counter",
			parse: "counter",
		},
		{
			name:    "different hrp",
			hrp:     "counter",
			parse:   "token",
			wantErr: ErrIncorrectHRP,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			addr := CreateAddress(0, ids.GenerateTestID())

			s, err := AddressBech32(tt.hrp, addr)
			require.NoError(err)

			parsed, err := ParseAddressBech32(tt.parse, s)
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr == nil {
				require.Equal(addr, parsed)
			}
		})
	}
}

func TestParseAnyAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	s, err := AddressBech32("counter", addr)
	require.NoError(err)

	fromBech32, err := ParseAnyAddress("counter", s)
	require.NoError(err)
	require.Equal(addr, fromBech32)

	fromHex, err := ParseAnyAddress("counter", "  "+addr.String()+"\n")
	require.NoError(err)
	require.Equal(addr, fromHex)
}
