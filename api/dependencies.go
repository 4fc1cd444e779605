// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/storage"
)

type VM interface {
	Tracer() trace.Tracer
	Logger() logging.Logger

	InstantiateWithNonce(ctx context.Context, caller codec.Address, nonce uint64, initBytes []byte) (*storage.Counter, error)
	ExecuteWithNonce(ctx context.Context, caller codec.Address, nonce uint64, cmdBytes []byte) (msg.GetCountResponse, error)
	Nonce(ctx context.Context, caller codec.Address) (uint64, error)
	Query(ctx context.Context, queryBytes []byte) ([]byte, error)
	State(ctx context.Context) (*storage.Counter, error)
}
