// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/state/statetest"
	"github.com/ava-labs/countervm/storage"
)

const scenarioPlan = `
name: owner reset
caller_key: alice
steps:
  - description: alice owns the counter
    endpoint: instantiate
    message: '{"count":17}'
  - endpoint: execute
    message: '{"increment":{}}'
    require:
      result: {operator: "==", value: "18"}
  - endpoint: execute
    caller_key: bob
    message: '{"increment_by":{"amount":16}}'
    require:
      result: {operator: "==", value: "34"}
  - endpoint: execute
    caller_key: bob
    message: '{"reset":{"count":5}}'
    require:
      error: unauthorized
  - endpoint: query
    message: '{"has_reset":{}}'
  - endpoint: execute
    message: '{"reset":{"count":5}}'
    require:
      result: {operator: "==", value: "5"}
  - endpoint: execute
    message: '{"increment_by":{"amount":2147483647}}'
    require:
      result: {operator: "<", value: "0"}
  - endpoint: query
    message: '{"get_count":{}}'
    require:
      result: {operator: "==", value: "-2147483644"}
`

func TestSimulatorRun(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := statetest.NewInMemoryStore()

	plan, err := unmarshalPlan([]byte(scenarioPlan))
	require.NoError(err)
	s, err := newSimulator(logging.NoLog{}, store)
	require.NoError(err)

	var out bytes.Buffer
	require.NoError(s.run(ctx, plan, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(lines, len(plan.Steps))

	responses := make([]Response, len(lines))
	for i, line := range lines {
		require.NoError(json.Unmarshal([]byte(line), &responses[i]))
		require.Equal(i, responses[i].ID)
	}
	require.Equal(int32(17), *responses[0].Result.Count)
	require.Contains(responses[3].Error, "unauthorized")
	require.JSONEq("false", string(responses[4].Result.Response))
	require.Equal(int32(5), *responses[5].Result.Count)
	require.NotEqual(responses[0].Result.Caller, responses[2].Result.Caller)
	require.Equal(responses[0].Result.Caller, responses[1].Result.Caller)

	names, err := storage.ListKeys(ctx, store)
	require.NoError(err)
	require.Equal([]string{"alice", "bob"}, names)
}

func TestSimulatorFailedAssertion(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	plan, err := unmarshalPlan([]byte(`
caller_key: alice
steps:
  - endpoint: execute
    message: '{"increment":{}}'
    require:
      result: {operator: "==", value: "1"}
  - endpoint: instantiate
    message: '{"count":0}'
`))
	require.NoError(err)
	s, err := newSimulator(logging.NoLog{}, statetest.NewInMemoryStore())
	require.NoError(err)

	var out bytes.Buffer
	err = s.run(ctx, plan, &out)
	require.ErrorIs(err, ErrAssertionFailed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(lines, 2)
	require.Contains(lines[0], "not instantiated")
	require.NotContains(lines[1], "error")
}
