// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*SimpleMutable)(nil)

type changeOp struct {
	value  []byte
	delete bool
}

// SimpleMutable buffers writes on top of [Mutable] until Commit is called.
// Dropping a SimpleMutable without committing leaves the underlying store
// untouched.
type SimpleMutable struct {
	v Mutable

	changes map[string]*changeOp
}

func NewSimpleMutable(v Mutable) *SimpleMutable {
	return &SimpleMutable{v, make(map[string]*changeOp)}
}

func (s *SimpleMutable) GetValue(ctx context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.delete {
			return nil, database.ErrNotFound
		}
		return v.value, nil
	}
	return s.v.GetValue(ctx, k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = &changeOp{value: v}
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = &changeOp{delete: true}
	return nil
}

// Len returns the number of pending changes.
func (s *SimpleMutable) Len() int {
	return len(s.changes)
}

// Commit writes all pending changes to the underlying store and clears them.
func (s *SimpleMutable) Commit(ctx context.Context) error {
	for k, op := range s.changes {
		var err error
		if op.delete {
			err = s.v.Remove(ctx, []byte(k))
		} else {
			err = s.v.Insert(ctx, []byte(k), op.value)
		}
		if err != nil {
			return err
		}
	}
	clear(s.changes)
	return nil
}
