// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/utils"
)

// New opens the pebble database stored under [dataDir]/[namespace].
func New(cfg pebble.Config, dataDir string, namespace string) (*pebble.Database, *prometheus.Registry, error) {
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, nil, err
	}
	return pebble.New(path, cfg)
}
