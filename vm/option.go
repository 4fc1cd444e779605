// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
)

type Option func(*VM)

func WithLogger(log logging.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(vm *VM) {
		vm.tracer = tracer
	}
}
