// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// The key of the caller used when a step names none.
	CallerKey string `json:"callerKey" yaml:"caller_key"`
	// Steps to perform during simulation.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The entry point to call. (required)
	Endpoint Endpoint `json:"endpoint" yaml:"endpoint"`
	// The key of the caller used. Defaults to the plan's caller key.
	CallerKey string `json:"callerKey" yaml:"caller_key"`
	// The JSON message passed to the endpoint. (required)
	Message string `json:"message" yaml:"message"`
	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Endpoint string

const (
	// Create the counter owned by the caller.
	EndpointInstantiate Endpoint = "instantiate"
	// Apply a command as the caller.
	EndpointExecute Endpoint = "execute"
	// Make a read-only query.
	EndpointQuery Endpoint = "query"
)

func newResponse(id int) *Response {
	return &Response{
		ID:     id,
		Result: &Result{},
	}
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id" yaml:"id"`
	// The result of the step.
	Result *Result `json:"result,omitempty" yaml:"result,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *Response) Print(w io.Writer) error {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

func (r *Response) setError(err error) {
	r.Error = err.Error()
}

type Result struct {
	// The count after the step completed.
	Count *int32 `json:"count,omitempty" yaml:"count,omitempty"`
	// The caller identity that signed the step.
	Caller string `json:"caller,omitempty" yaml:"caller,omitempty"`
	// The raw JSON response of a query.
	Response json.RawMessage `json:"response,omitempty" yaml:"response,omitempty"`
}

type Require struct {
	// Assertion against the count after the step.
	Result *ResultAssertion `json:"result,omitempty" yaml:"result,omitempty"`
	// Substring the step's error must contain. An empty value requires
	// success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

type ResultAssertion struct {
	// The operator to use for the assertion.
	Operator string `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value string `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

// validateAssertion reports whether [actual] satisfies [assertion].
func validateAssertion(actual int32, assertion *ResultAssertion) (bool, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(assertion.Value), 10, 32)
	if err != nil {
		return false, err
	}
	v := int32(value)

	switch Operator(assertion.Operator) {
	case NumericGt:
		return actual > v, nil
	case NumericLt:
		return actual < v, nil
	case NumericGe:
		return actual >= v, nil
	case NumericLe:
		return actual <= v, nil
	case NumericEq:
		return actual == v, nil
	case NumericNe:
		return actual != v, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidOperator, assertion.Operator)
	}
}

// checkRequire validates the outcome of a step against [req].
func checkRequire(req *Require, count *int32, stepErr error) error {
	if req == nil {
		return nil
	}
	switch {
	case len(req.Error) > 0 && stepErr == nil:
		return fmt.Errorf("%w: expected error containing %q", ErrAssertionFailed, req.Error)
	case len(req.Error) > 0 && !strings.Contains(stepErr.Error(), req.Error):
		return fmt.Errorf("%w: expected error containing %q, got %q", ErrAssertionFailed, req.Error, stepErr)
	case len(req.Error) == 0 && stepErr != nil:
		return fmt.Errorf("%w: unexpected error: %w", ErrAssertionFailed, stepErr)
	}
	if req.Result == nil {
		return nil
	}
	if count == nil {
		return fmt.Errorf("%w: step has no count", ErrAssertionFailed)
	}
	ok, err := validateAssertion(*count, req.Result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d %s %s is false", ErrAssertionFailed, *count, req.Result.Operator, req.Result.Value)
	}
	return nil
}

func unmarshalPlan(bytes []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(string(bytes)):
		if err := json.Unmarshal(bytes, &p); err != nil {
			return nil, err
		}
	case isYAML(string(bytes)):
		if err := yaml.Unmarshal(bytes, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, p.verify()
}

func (p *Plan) verify() error {
	for i, step := range p.Steps {
		switch step.Endpoint {
		case EndpointInstantiate, EndpointExecute, EndpointQuery:
		default:
			return fmt.Errorf("%w: step %d: %q", ErrInvalidEndpoint, i, step.Endpoint)
		}
		if step.Endpoint != EndpointQuery && len(step.CallerKey) == 0 && len(p.CallerKey) == 0 {
			return fmt.Errorf("%w: step %d has no caller key", ErrInvalidArgs, i)
		}
	}
	return nil
}

func isJSON(s string) bool {
	var js map[string]interface{}
	return json.Unmarshal([]byte(s), &js) == nil
}

func isYAML(s string) bool {
	var y map[string]interface{}
	return yaml.Unmarshal([]byte(s), &y) == nil
}
