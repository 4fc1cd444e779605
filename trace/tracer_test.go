// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.AppName = "countervm"
	tracer, err := New(&cfg)
	require.NoError(err)

	ctx, span := tracer.Start(context.Background(), "VM.Execute")
	require.NotNil(ctx)
	require.False(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.AppName = "countervm"
	tracer, err := New(&cfg)
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "VM.Execute")
	require.True(span.IsRecording())
	span.End()
}
