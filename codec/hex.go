// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ToHex converts bytes to a hex string.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// LoadHex decodes [s], with or without a 0x prefix. A non-negative
// [expectedSize] also requires the result to be exactly that long.
func LoadHex(s string, expectedSize int) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if expectedSize >= 0 && len(b) != expectedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSize, expectedSize, len(b))
	}
	return b, nil
}

// Bytes is a byte slice carried as hex text in JSON-RPC payloads, so
// signed messages and signatures survive transport unchanged.
type Bytes []byte

func (b Bytes) String() string {
	return ToHex(b)
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes) UnmarshalText(text []byte) error {
	decoded, err := LoadHex(string(text), -1)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
