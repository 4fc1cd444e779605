// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vm hosts the counter state machine. It decodes JSON messages,
// serializes invocations and commits each one to the backing store only
// when it succeeds.
package vm

import (
	"context"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"

	cvmtrace "github.com/ava-labs/countervm/trace"
)

type VM struct {
	log     logging.Logger
	tracer  trace.Tracer
	metrics *Metrics

	// [lock] is held for the whole load, mutate, persist cycle of every
	// invocation.
	lock  sync.Mutex
	store state.Mutable
}

// New returns a VM over [store] and the registry its metrics are
// registered with.
func New(store state.Mutable, opts ...Option) (*VM, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	vm := &VM{
		log:     logging.NoLog{},
		tracer:  cvmtrace.Noop(consts.Name),
		metrics: metrics,
		store:   store,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm, registry, nil
}

// Instantiate decodes an Init message and creates the record with [caller]
// as owner. It fails with [counter.ErrAlreadyInstantiated] once the record
// exists.
func (vm *VM) Instantiate(ctx context.Context, caller codec.Address, initBytes []byte) (*storage.Counter, error) {
	return vm.instantiateEntry(ctx, caller, nil, initBytes)
}

// InstantiateWithNonce is [VM.Instantiate] for a caller that signed [nonce].
// The nonce is consumed only if the record is created.
func (vm *VM) InstantiateWithNonce(ctx context.Context, caller codec.Address, nonce uint64, initBytes []byte) (*storage.Counter, error) {
	return vm.instantiateEntry(ctx, caller, &nonce, initBytes)
}

func (vm *VM) instantiateEntry(ctx context.Context, caller codec.Address, nonce *uint64, initBytes []byte) (*storage.Counter, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.Instantiate")
	defer span.End()

	start := time.Now()
	vm.lock.Lock()
	defer vm.lock.Unlock()

	c, err := vm.instantiate(ctx, caller, nonce, initBytes)
	vm.metrics.observe(instantiateEntry, start, err)
	if err != nil {
		vm.log.Debug("instantiate failed",
			zap.Stringer("caller", caller),
			zap.Error(err),
		)
		return nil, err
	}
	vm.metrics.count.Set(float64(c.Value))
	vm.log.Info("counter instantiated",
		zap.Int32("count", c.Value),
		zap.Stringer("owner", c.Owner),
	)
	return c, nil
}

func (vm *VM) instantiate(ctx context.Context, caller codec.Address, nonce *uint64, initBytes []byte) (*storage.Counter, error) {
	init, err := msg.UnmarshalInit(initBytes)
	if err != nil {
		return nil, err
	}
	view := state.NewSimpleMutable(vm.store)
	if err := consumeNonce(ctx, view, caller, nonce); err != nil {
		return nil, err
	}
	c, err := counter.Instantiate(ctx, view, init, caller)
	if err != nil {
		return nil, err
	}
	if err := view.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Execute decodes a command, applies it on behalf of [caller] and returns
// the resulting count.
func (vm *VM) Execute(ctx context.Context, caller codec.Address, cmdBytes []byte) (msg.GetCountResponse, error) {
	return vm.executeEntry(ctx, caller, nil, cmdBytes)
}

// ExecuteWithNonce is [VM.Execute] for a caller that signed [nonce]. The
// nonce is consumed only if the command commits.
func (vm *VM) ExecuteWithNonce(ctx context.Context, caller codec.Address, nonce uint64, cmdBytes []byte) (msg.GetCountResponse, error) {
	return vm.executeEntry(ctx, caller, &nonce, cmdBytes)
}

func (vm *VM) executeEntry(ctx context.Context, caller codec.Address, nonce *uint64, cmdBytes []byte) (msg.GetCountResponse, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.Execute")
	defer span.End()

	start := time.Now()
	vm.lock.Lock()
	defer vm.lock.Unlock()

	cmd, c, err := vm.execute(ctx, caller, nonce, cmdBytes)
	vm.metrics.observe(executeEntry, start, err)
	if err != nil {
		vm.log.Debug("execute failed",
			zap.Stringer("caller", caller),
			zap.Error(err),
		)
		return msg.GetCountResponse{}, err
	}
	vm.metrics.commands.WithLabelValues(cmd.Name()).Inc()
	vm.metrics.count.Set(float64(c.Value))
	if _, ok := cmd.(*msg.Reset); ok {
		vm.metrics.resets.Inc()
	}
	vm.log.Debug("executed command",
		zap.String("command", cmd.Name()),
		zap.Stringer("caller", caller),
		zap.Int32("count", c.Value),
	)
	return msg.GetCountResponse{Count: c.Value}, nil
}

func (vm *VM) execute(ctx context.Context, caller codec.Address, nonce *uint64, cmdBytes []byte) (msg.Command, *storage.Counter, error) {
	cmd, err := msg.UnmarshalCommand(cmdBytes)
	if err != nil {
		return nil, nil, err
	}
	view := state.NewSimpleMutable(vm.store)
	if err := consumeNonce(ctx, view, caller, nonce); err != nil {
		return nil, nil, err
	}
	c, err := counter.Execute(ctx, view, cmd, caller)
	if err != nil {
		return nil, nil, err
	}
	if err := view.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return cmd, c, nil
}

func consumeNonce(ctx context.Context, view state.Mutable, caller codec.Address, nonce *uint64) error {
	if nonce == nil {
		return nil
	}
	return storage.ConsumeNonce(ctx, view, caller, *nonce)
}

// Nonce returns the next nonce [caller] must sign with.
func (vm *VM) Nonce(ctx context.Context, caller codec.Address) (uint64, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return storage.GetNonce(ctx, vm.store, caller)
}

// Query decodes a query and returns its JSON encoded response.
func (vm *VM) Query(ctx context.Context, queryBytes []byte) ([]byte, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.Query")
	defer span.End()

	start := time.Now()
	vm.lock.Lock()
	defer vm.lock.Unlock()

	resp, err := vm.query(ctx, queryBytes)
	vm.metrics.observe(queryEntry, start, err)
	if err != nil {
		vm.log.Debug("query failed", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (vm *VM) query(ctx context.Context, queryBytes []byte) ([]byte, error) {
	q, err := msg.UnmarshalQuery(queryBytes)
	if err != nil {
		return nil, err
	}
	return counter.Query(ctx, vm.store, q)
}

// State returns the whole persisted record.
func (vm *VM) State(ctx context.Context) (*storage.Counter, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.State")
	defer span.End()

	vm.lock.Lock()
	defer vm.lock.Unlock()

	c, exists, err := storage.GetCounter(ctx, vm.store)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, counter.ErrNotInstantiated
	}
	return c, nil
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}
