// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ava-labs/countervm/api"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/server"
)

const (
	Endpoint = "/counterapi"
)

var _ api.HandlerFactory[api.VM] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(vm api.VM) (api.Handler, error) {
	handler, err := server.NewHandler(NewJSONRPCServer(vm), api.Name)
	if err != nil {
		return api.Handler{}, err
	}

	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	vm api.VM
}

func NewJSONRPCServer(vm api.VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

// SignedArgs carries a JSON message and an ed25519 signature over
// [SignedPayload] of the message and the signer's next nonce. The signer's
// address is the caller identity.
type SignedArgs struct {
	Nonce     uint64      `json:"nonce"`
	Message   codec.Bytes `json:"message"`
	PublicKey codec.Bytes `json:"publicKey"`
	Signature codec.Bytes `json:"signature"`
}

// SignedPayload returns the bytes signed for [message] at [nonce].
func SignedPayload(nonce uint64, message []byte) []byte {
	size := consts.Uint64Len + len(message)
	p := codec.NewWriter(size, size)
	p.PackUint64(nonce)
	p.PackFixedBytes(message)
	return p.Bytes()
}

// NewSignedArgs signs [message] at [nonce] with [priv].
func NewSignedArgs(message []byte, nonce uint64, priv ed25519.PrivateKey) *SignedArgs {
	a := auth.SignED25519(SignedPayload(nonce, message), priv)
	return &SignedArgs{
		Nonce:     nonce,
		Message:   message,
		PublicKey: a.Signer[:],
		Signature: a.Signature[:],
	}
}

// verify returns the caller identity of a correctly signed [args].
func (args *SignedArgs) verify(ctx context.Context) (codec.Address, error) {
	if len(args.PublicKey) != ed25519.PublicKeyLen {
		return codec.EmptyAddress, fmt.Errorf("%w: public key is %d bytes", crypto.ErrInvalidPublicKey, len(args.PublicKey))
	}
	if len(args.Signature) != ed25519.SignatureLen {
		return codec.EmptyAddress, fmt.Errorf("%w: signature is %d bytes", crypto.ErrInvalidSignature, len(args.Signature))
	}
	a := &auth.ED25519{
		Signer:    ed25519.PublicKey(args.PublicKey),
		Signature: ed25519.Signature(args.Signature),
	}
	if err := a.Verify(ctx, SignedPayload(args.Nonce, args.Message)); err != nil {
		return codec.EmptyAddress, err
	}
	return a.Actor(), nil
}

type NonceArgs struct {
	Address string `json:"address"`
}

type NonceReply struct {
	Nonce uint64 `json:"nonce"`
}

func (j *JSONRPCServer) Nonce(req *http.Request, args *NonceArgs, reply *NonceReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Nonce")
	defer span.End()

	addr, err := codec.ParseAddressBech32(consts.HRP, args.Address)
	if err != nil {
		return err
	}
	reply.Nonce, err = j.vm.Nonce(ctx, addr)
	return err
}

type InstantiateReply struct {
	Count int32  `json:"count"`
	Owner string `json:"owner"`
}

func (j *JSONRPCServer) Instantiate(req *http.Request, args *SignedArgs, reply *InstantiateReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Instantiate")
	defer span.End()

	caller, err := args.verify(ctx)
	if err != nil {
		return toRPCError(err)
	}
	c, err := j.vm.InstantiateWithNonce(ctx, caller, args.Nonce, args.Message)
	if err != nil {
		return toRPCError(err)
	}
	reply.Count = c.Value
	reply.Owner, err = codec.AddressBech32(consts.HRP, c.Owner)
	return err
}

type ExecuteReply struct {
	Count int32 `json:"count"`
}

func (j *JSONRPCServer) Execute(req *http.Request, args *SignedArgs, reply *ExecuteReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Execute")
	defer span.End()

	caller, err := args.verify(ctx)
	if err != nil {
		j.vm.Logger().Debug("rejected execute", zap.Error(err))
		return toRPCError(err)
	}
	resp, err := j.vm.ExecuteWithNonce(ctx, caller, args.Nonce, args.Message)
	if err != nil {
		return toRPCError(err)
	}
	reply.Count = resp.Count
	return nil
}

type QueryArgs struct {
	Message codec.Bytes `json:"message"`
}

type QueryReply struct {
	Response json.RawMessage `json:"response"`
}

func (j *JSONRPCServer) Query(req *http.Request, args *QueryArgs, reply *QueryReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Query")
	defer span.End()

	resp, err := j.vm.Query(ctx, args.Message)
	if err != nil {
		return toRPCError(err)
	}
	reply.Response = resp
	return nil
}

type StateReply struct {
	Count int32  `json:"count"`
	Owner string `json:"owner"`
	Reset bool   `json:"reset"`
}

func (j *JSONRPCServer) State(req *http.Request, _ *struct{}, reply *StateReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.State")
	defer span.End()

	c, err := j.vm.State(ctx)
	if err != nil {
		return toRPCError(err)
	}
	reply.Count = c.Value
	reply.Reset = c.WasReset
	reply.Owner, err = codec.AddressBech32(consts.HRP, c.Owner)
	return err
}
