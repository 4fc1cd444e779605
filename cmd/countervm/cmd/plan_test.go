// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		actual    int32
		assertion *ResultAssertion
		expected  bool
		wantErr   error
	}{
		{"IsGreaterThan", 5, &ResultAssertion{Operator: string(NumericGt), Value: "3"}, true, nil},
		{"IsNotGreaterThan", 5, &ResultAssertion{Operator: string(NumericGt), Value: "10"}, false, nil},
		{"IsLessThan", -5, &ResultAssertion{Operator: string(NumericLt), Value: "0"}, true, nil},
		{"IsNotLessThan", 5, &ResultAssertion{Operator: string(NumericLt), Value: "2"}, false, nil},
		{"IsEqualTo", -2147483648, &ResultAssertion{Operator: string(NumericEq), Value: "-2147483648"}, true, nil},
		{"IsNotEqual", 5, &ResultAssertion{Operator: string(NumericNe), Value: "3"}, true, nil},
		{"IsGreaterThanOrEqualToSame", 5, &ResultAssertion{Operator: string(NumericGe), Value: "5"}, true, nil},
		{"IsLessThanOrEqualToSmaller", 5, &ResultAssertion{Operator: string(NumericLe), Value: "1"}, false, nil},
		{"ParseNothingFails", 5, &ResultAssertion{Operator: string(NumericEq)}, false, strconv.ErrSyntax},
		{"OutOfRangeFails", 5, &ResultAssertion{Operator: string(NumericEq), Value: "2147483648"}, false, strconv.ErrRange},
		{"UnknownOperatorFails", 5, &ResultAssertion{Operator: "~", Value: "5"}, false, ErrInvalidOperator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := validateAssertion(tt.actual, tt.assertion)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.expected, result)
		})
	}
}

func TestCheckRequire(t *testing.T) {
	five := int32(5)
	unauthorized := errors.New("unauthorized")

	tests := []struct {
		name    string
		req     *Require
		count   *int32
		stepErr error
		wantErr error
	}{
		{"NoRequire", nil, nil, unauthorized, nil},
		{"CountMatches", &Require{Result: &ResultAssertion{Operator: "==", Value: "5"}}, &five, nil, nil},
		{"CountMismatch", &Require{Result: &ResultAssertion{Operator: "==", Value: "6"}}, &five, nil, ErrAssertionFailed},
		{"MissingCount", &Require{Result: &ResultAssertion{Operator: "==", Value: "5"}}, nil, nil, ErrAssertionFailed},
		{"ExpectedError", &Require{Error: "unauthorized"}, nil, unauthorized, nil},
		{"WrongError", &Require{Error: "decode"}, nil, unauthorized, ErrAssertionFailed},
		{"MissingError", &Require{Error: "unauthorized"}, &five, nil, ErrAssertionFailed},
		{"UnexpectedError", &Require{}, nil, unauthorized, ErrAssertionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, checkRequire(tt.req, tt.count, tt.stepErr), tt.wantErr)
		})
	}
}

func TestUnmarshalPlan(t *testing.T) {
	require := require.New(t)

	yamlPlan := `
name: reset
caller_key: alice
steps:
  - endpoint: instantiate
    message: '{"count":17}'
  - endpoint: execute
    caller_key: bob
    message: '{"reset":{"count":5}}'
    require:
      error: unauthorized
  - endpoint: query
    message: '{"get_count":{}}'
    require:
      result:
        operator: "=="
        value: "17"
`
	p, err := unmarshalPlan([]byte(yamlPlan))
	require.NoError(err)
	require.Equal("reset", p.Name)
	require.Equal("alice", p.CallerKey)
	require.Len(p.Steps, 3)
	require.Equal(EndpointExecute, p.Steps[1].Endpoint)
	require.Equal("bob", p.Steps[1].CallerKey)
	require.Equal("unauthorized", p.Steps[1].Require.Error)
	require.Equal("17", p.Steps[2].Require.Result.Value)

	jsonPlan := `{"name":"inc","callerKey":"alice","steps":[{"endpoint":"execute","message":"{\"increment\":{}}"}]}`
	p, err = unmarshalPlan([]byte(jsonPlan))
	require.NoError(err)
	require.Equal(`{"increment":{}}`, p.Steps[0].Message)

	_, err = unmarshalPlan([]byte(`steps: [{endpoint: transfer, message: "{}"}]`))
	require.ErrorIs(err, ErrInvalidEndpoint)

	_, err = unmarshalPlan([]byte(`steps: [{endpoint: execute, message: "{}"}]`))
	require.ErrorIs(err, ErrInvalidArgs)

	_, err = unmarshalPlan([]byte(`- not a plan`))
	require.ErrorIs(err, ErrInvalidConfigFormat)
}
