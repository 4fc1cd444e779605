// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/countervm/api"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/requester"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
	priv      ed25519.PrivateKey
	addr      codec.Address
}

// NewJSONRPCClient returns a client for the node at [uri]. Signed calls use
// [priv].
func NewJSONRPCClient(uri string, priv ed25519.PrivateKey) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	req := requester.New(uri, api.Name)
	return &JSONRPCClient{
		requester: req,
		priv:      priv,
		addr:      auth.NewED25519Address(priv.PublicKey()),
	}
}

// Address returns the caller identity of signed calls.
func (cli *JSONRPCClient) Address() codec.Address {
	return cli.addr
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Instantiate(ctx context.Context, init *msg.Init) (int32, codec.Address, error) {
	b, err := msg.MarshalInit(init)
	if err != nil {
		return 0, codec.EmptyAddress, err
	}
	args, err := cli.sign(ctx, b)
	if err != nil {
		return 0, codec.EmptyAddress, err
	}
	resp := new(InstantiateReply)
	err = cli.requester.SendRequest(
		ctx,
		"instantiate",
		args,
		resp,
	)
	if err != nil {
		return 0, codec.EmptyAddress, restoreErr(err)
	}
	owner, err := codec.ParseAddressBech32(consts.HRP, resp.Owner)
	return resp.Count, owner, err
}

func (cli *JSONRPCClient) Execute(ctx context.Context, cmd msg.Command) (int32, error) {
	b, err := msg.MarshalCommand(cmd)
	if err != nil {
		return 0, err
	}
	return cli.ExecuteRaw(ctx, b)
}

// ExecuteRaw signs and sends [message] as is. It is used to submit messages
// that may not decode.
func (cli *JSONRPCClient) ExecuteRaw(ctx context.Context, message []byte) (int32, error) {
	args, err := cli.sign(ctx, message)
	if err != nil {
		return 0, err
	}
	return cli.ExecuteSigned(ctx, args)
}

// ExecuteSigned relays [args], which may have been signed by another key.
func (cli *JSONRPCClient) ExecuteSigned(ctx context.Context, args *SignedArgs) (int32, error) {
	resp := new(ExecuteReply)
	err := cli.requester.SendRequest(
		ctx,
		"execute",
		args,
		resp,
	)
	if err != nil {
		return 0, restoreErr(err)
	}
	return resp.Count, nil
}

// Nonce returns the next nonce [addr] must sign with.
func (cli *JSONRPCClient) Nonce(ctx context.Context, addr codec.Address) (uint64, error) {
	bech32, err := codec.AddressBech32(consts.HRP, addr)
	if err != nil {
		return 0, err
	}
	resp := new(NonceReply)
	err = cli.requester.SendRequest(
		ctx,
		"nonce",
		&NonceArgs{Address: bech32},
		resp,
	)
	return resp.Nonce, restoreErr(err)
}

// sign fetches the client's next nonce and signs [message] with it.
func (cli *JSONRPCClient) sign(ctx context.Context, message []byte) (*SignedArgs, error) {
	nonce, err := cli.Nonce(ctx, cli.addr)
	if err != nil {
		return nil, err
	}
	return NewSignedArgs(message, nonce, cli.priv), nil
}

func (cli *JSONRPCClient) Query(ctx context.Context, q msg.Query) ([]byte, error) {
	b, err := msg.MarshalQuery(q)
	if err != nil {
		return nil, err
	}
	resp := new(QueryReply)
	err = cli.requester.SendRequest(
		ctx,
		"query",
		&QueryArgs{Message: b},
		resp,
	)
	if err != nil {
		return nil, restoreErr(err)
	}
	return resp.Response, nil
}

func (cli *JSONRPCClient) GetCount(ctx context.Context) (int32, error) {
	b, err := cli.Query(ctx, &msg.GetCount{})
	if err != nil {
		return 0, err
	}
	resp, err := msg.UnmarshalGetCountResponse(b)
	return resp.Count, err
}

func (cli *JSONRPCClient) HasReset(ctx context.Context) (bool, error) {
	b, err := cli.Query(ctx, &msg.HasReset{})
	if err != nil {
		return false, err
	}
	return msg.UnmarshalHasResetResponse(b)
}

func (cli *JSONRPCClient) State(ctx context.Context) (*StateReply, error) {
	resp := new(StateReply)
	err := cli.requester.SendRequest(
		ctx,
		"state",
		nil,
		resp,
	)
	if err != nil {
		return nil, restoreErr(err)
	}
	return resp, nil
}
