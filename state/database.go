// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*DatabaseStore)(nil)

// DatabaseStore exposes an avalanchego key-value database as [Mutable].
type DatabaseStore struct {
	db database.KeyValueReaderWriterDeleter
}

func NewDatabaseStore(db database.KeyValueReaderWriterDeleter) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.db.Get(key)
}

func (d *DatabaseStore) Insert(_ context.Context, key []byte, value []byte) error {
	return d.db.Put(key, value)
}

func (d *DatabaseStore) Remove(_ context.Context, key []byte) error {
	return d.db.Delete(key)
}
