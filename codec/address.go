// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressLen = 33

	// These consts are pulled from BIP-173: https://github.com/bitcoin/bips/blob/master/bip-0173.mediawiki
	fromBits      = 8
	toBits        = 5
	separatorLen  = 1
	checksumlen   = 6
	maxBech32Size = 90
)

// Address identifies a caller. Two addresses are the same caller if and only
// if all 33 bytes are equal.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// ToAddress returns [Address] for [b], which must be exactly AddressLen bytes.
func ToAddress(b []byte) (Address, error) {
	if len(b) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSize, AddressLen, len(b))
	}
	return Address(b), nil
}

// StringToAddress parses the 0x-prefixed (or bare) hex form produced by
// [Address.String].
func StringToAddress(s string) (Address, error) {
	b, err := LoadHex(s, AddressLen)
	if err != nil {
		return EmptyAddress, err
	}
	return Address(b), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + ToHex(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	addr, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// AddressBech32 returns a Bech32 address string for [a] with [hrp] as the
// human readable part.
func AddressBech32(hrp string, a Address) (string, error) {
	if len(hrp)+separatorLen+(AddressLen*fromBits+toBits-1)/toBits+checksumlen > maxBech32Size {
		return "", ErrInvalidSize
	}
	p, err := bech32.ConvertBits(a[:], fromBits, toBits, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, p)
}

// ParseAddressBech32 parses a Bech32 encoded address string and returns the
// [Address]. It returns an error if the hrp value does not match [hrp].
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, ErrIncorrectHRP
	}
	// The parsed data is 5 bits per byte, so convert back to 8 bits.
	b, err := bech32.ConvertBits(p, toBits, fromBits, false)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// ParseAnyAddress accepts either the hex or the Bech32 form.
func ParseAnyAddress(hrp, s string) (Address, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, hrp+"1") {
		return ParseAddressBech32(hrp, s)
	}
	return StringToAddress(s)
}
