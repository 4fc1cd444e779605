// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package counter implements the counter state machine: one persisted record
// holding a signed 32-bit value and the identity of its owner.
//
// All arithmetic wraps on overflow with two's complement semantics.
// Only [msg.Reset] is gated by [IsAuthorized]; every other command is open
// to any caller.
package counter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
)

// Instantiate creates the record with [caller] as its owner. The record is
// created at most once; later calls fail with [ErrAlreadyInstantiated] and
// leave it untouched.
func Instantiate(
	ctx context.Context,
	mu state.Mutable,
	init *msg.Init,
	caller codec.Address,
) (*storage.Counter, error) {
	_, exists, err := storage.GetCounter(ctx, mu)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInstantiated
	}
	c := &storage.Counter{
		Value: init.Count,
		Owner: caller,
	}
	if err := storage.SetCounter(ctx, mu, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Execute applies [cmd] on behalf of [caller] and returns the updated record.
// On error nothing is written to [mu].
func Execute(
	ctx context.Context,
	mu state.Mutable,
	cmd msg.Command,
	caller codec.Address,
) (*storage.Counter, error) {
	c, err := load(ctx, mu)
	if err != nil {
		return nil, err
	}
	next, err := Transition(c, cmd, caller)
	if err != nil {
		return nil, err
	}
	if err := storage.SetCounter(ctx, mu, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Transition computes the record that results from applying [cmd]. It does
// not modify [c].
func Transition(c *storage.Counter, cmd msg.Command, caller codec.Address) (*storage.Counter, error) {
	next := *c
	switch cmd := cmd.(type) {
	case *msg.Increment:
		next.Value++
	case *msg.Decrement:
		next.Value--
	case *msg.IncrementBy:
		next.Value += cmd.Amount
	case *msg.DecrementBy:
		next.Value -= cmd.Amount
	case *msg.SetValue:
		next.Value = cmd.NewValue
	case *msg.Reset:
		if !IsAuthorized(caller, c.Owner) {
			return nil, ErrUnauthorized
		}
		next.Value = cmd.Count
		next.WasReset = true
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return &next, nil
}

// GetCount returns the current value.
func GetCount(ctx context.Context, im state.Immutable) (msg.GetCountResponse, error) {
	c, err := load(ctx, im)
	if err != nil {
		return msg.GetCountResponse{}, err
	}
	return msg.GetCountResponse{Count: c.Value}, nil
}

// HasReset reports whether an authorized reset has ever succeeded. Changing
// the value by any other command, including back to or away from the
// initial count, does not affect it.
func HasReset(ctx context.Context, im state.Immutable) (bool, error) {
	c, err := load(ctx, im)
	if err != nil {
		return false, err
	}
	return c.WasReset, nil
}

// Query answers [q] with its JSON encoded response: a [msg.GetCountResponse]
// for [msg.GetCount] and a boolean for [msg.HasReset].
func Query(ctx context.Context, im state.Immutable, q msg.Query) ([]byte, error) {
	switch q.(type) {
	case *msg.GetCount:
		resp, err := GetCount(ctx, im)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	case *msg.HasReset:
		reset, err := HasReset(ctx, im)
		if err != nil {
			return nil, err
		}
		return json.Marshal(reset)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownQuery, q)
	}
}

func load(ctx context.Context, im state.Immutable) (*storage.Counter, error) {
	c, exists, err := storage.GetCounter(ctx, im)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotInstantiated
	}
	return c, nil
}
