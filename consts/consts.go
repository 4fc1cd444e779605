// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is used as the JSON-RPC service name and metrics namespace.
	Name = "countervm"

	// HRP is the human readable part of bech32 encoded addresses.
	HRP = "counter"

	// ED25519ID prefixes addresses derived from ed25519 public keys.
	ED25519ID uint8 = 0

	ByteLen   = 1
	BoolLen   = 1
	IDLen     = 32
	Int32Len  = 4
	Uint64Len = 8

	MaxInt32 = int32(^uint32(0) >> 1)
	MinInt32 = -MaxInt32 - 1
)
