// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)

	require.Equal(ToID([]byte("owner")), ToID([]byte("owner")))
	require.NotEqual(ToID([]byte("owner")), ToID([]byte("anyone")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)
	root := t.TempDir()

	p, err := InitSubDirectory(root, "db")
	require.NoError(err)
	require.Equal(filepath.Join(root, "db"), p)

	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())
}
