// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	require := require.New(t)
	dir := filepath.Join(t.TempDir(), "logs")

	log, stop, err := newLogger(dir, logging.Info, false, "simulator")
	require.NoError(err)
	log.Debug("hidden")
	log.Info("step complete", zap.Int("id", 3))
	stop()

	b, err := os.ReadFile(filepath.Join(dir, "simulator.log"))
	require.NoError(err)
	require.Contains(string(b), "step complete")
	require.Contains(string(b), `"id":3`)
	require.NotContains(string(b), "hidden")
}
