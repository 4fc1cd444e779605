// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/state"
)

var _ state.Mutable = (*Database)(nil)

type Config struct {
	CacheSize                   int  `json:"cacheSize"                   yaml:"cacheSize"`
	BytesPerSync                int  `json:"bytesPerSync"                yaml:"bytesPerSync"`
	MemTableStopWritesThreshold int  `json:"memTableStopWritesThreshold" yaml:"memTableStopWritesThreshold"`
	MaxOpenFiles                int  `json:"maxOpenFiles"                yaml:"maxOpenFiles"`
	ConcurrentCompactions       int  `json:"concurrentCompactions"       yaml:"concurrentCompactions"`
	Sync                        bool `json:"sync"                        yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   8 * units.MiB,
		BytesPerSync:                512 * units.KiB,
		MemTableStopWritesThreshold: 8,
		MaxOpenFiles:                256,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is a pebble-backed [state.Mutable]. Every Insert and Remove is a
// single pebble write, so a record is either fully written or not at all.
type Database struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
	metrics   *metrics

	closing chan struct{}
	wg      sync.WaitGroup

	lock   sync.RWMutex
	closed bool
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		metrics:   metrics,
		closing:   make(chan struct{}),
	}
	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()

	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	d.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (db *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.reads.Observe(float64(time.Since(start)))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return slices.Clone(data), nil
}

func (db *Database) Insert(_ context.Context, key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	db.metrics.writes.WithLabelValues("set").Inc()
	return db.db.Set(key, value, db.writeOpts)
}

func (db *Database) Remove(_ context.Context, key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	db.metrics.writes.WithLabelValues("delete").Inc()
	return db.db.Delete(key, db.writeOpts)
}

func (db *Database) Close() error {
	db.lock.Lock()
	if db.closed {
		db.lock.Unlock()
		return database.ErrClosed
	}
	db.closed = true
	db.lock.Unlock()

	close(db.closing)
	db.wg.Wait()
	return db.db.Close()
}
