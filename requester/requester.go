// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package requester

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/rpc/v2/json2"
)

type EndpointRequester struct {
	cli      *http.Client
	uri      string
	endpoint string
}

// New returns a requester that calls "<endpoint>.<method>" at [uri].
func New(uri string, endpoint string) *EndpointRequester {
	return &EndpointRequester{
		cli:      http.DefaultClient,
		uri:      uri,
		endpoint: endpoint,
	}
}

func (e *EndpointRequester) SendRequest(
	ctx context.Context,
	method string,
	params interface{},
	reply interface{},
) error {
	uri, err := url.Parse(e.uri)
	if err != nil {
		return err
	}
	requestBodyBytes, err := json2.EncodeClientRequest(e.endpoint+"."+method, params)
	if err != nil {
		return fmt.Errorf("failed to encode client params: %w", err)
	}
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		uri.String(),
		bytes.NewBuffer(requestBodyBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := e.cli.Do(request)
	if err != nil {
		return fmt.Errorf("failed to issue request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received status code: %d", resp.StatusCode)
	}
	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		return fmt.Errorf("failed to decode client response: %w", err)
	}
	return nil
}
