// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc_test

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/api/jsonrpc"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/crypto"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/vm"

	ginkgo "github.com/onsi/ginkgo/v2"
)

func TestJSONRPC(t *testing.T) {
	ginkgo.RunSpecs(t, "countervm jsonrpc test suites")
}

var (
	ts     *httptest.Server
	ownerK ed25519.PrivateKey
	otherK ed25519.PrivateKey
	owner  *jsonrpc.JSONRPCClient
	other  *jsonrpc.JSONRPCClient
)

var _ = ginkgo.BeforeEach(func() {
	require := require.New(ginkgo.GinkgoT())

	cvm, _, err := vm.New(state.NewDatabaseStore(memdb.New()))
	require.NoError(err)
	h, err := jsonrpc.JSONRPCServerFactory{}.New(cvm)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(h.Path, h.Handler)
	ts = httptest.NewServer(mux)

	ownerK, err = ed25519.GeneratePrivateKey()
	require.NoError(err)
	otherK, err = ed25519.GeneratePrivateKey()
	require.NoError(err)
	owner = jsonrpc.NewJSONRPCClient(ts.URL, ownerK)
	other = jsonrpc.NewJSONRPCClient(ts.URL, otherK)
})

var _ = ginkgo.AfterEach(func() {
	ts.Close()
})

var _ = ginkgo.Describe("[Ping]", func() {
	ginkgo.It("responds", func() {
		require := require.New(ginkgo.GinkgoT())
		ok, err := owner.Ping(context.Background())
		require.NoError(err)
		require.True(ok)
	})
})

var _ = ginkgo.Describe("[Counter]", func() {
	ctx := context.Background()

	ginkgo.It("records the signer as owner", func() {
		require := require.New(ginkgo.GinkgoT())
		count, addr, err := owner.Instantiate(ctx, &msg.Init{Count: 17})
		require.NoError(err)
		require.Equal(int32(17), count)
		require.Equal(auth.NewED25519Address(ownerK.PublicKey()), addr)

		st, err := other.State(ctx)
		require.NoError(err)
		require.Equal(int32(17), st.Count)
		require.False(st.Reset)
	})

	ginkgo.It("increments for the owner", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 17})
		require.NoError(err)
		count, err := owner.Execute(ctx, &msg.Increment{})
		require.NoError(err)
		require.Equal(int32(18), count)
	})

	ginkgo.It("increments by any caller", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 17})
		require.NoError(err)
		count, err := other.Execute(ctx, &msg.IncrementBy{Amount: 17})
		require.NoError(err)
		require.Equal(int32(34), count)
	})

	ginkgo.It("only lets the owner reset", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 17})
		require.NoError(err)

		_, err = other.Execute(ctx, &msg.Reset{Count: 5})
		require.ErrorIs(err, counter.ErrUnauthorized)
		count, err := other.GetCount(ctx)
		require.NoError(err)
		require.Equal(int32(17), count)
		reset, err := other.HasReset(ctx)
		require.NoError(err)
		require.False(reset)

		count, err = owner.Execute(ctx, &msg.Reset{Count: 5})
		require.NoError(err)
		require.Equal(int32(5), count)
		reset, err = other.HasReset(ctx)
		require.NoError(err)
		require.True(reset)
	})

	ginkgo.It("wraps around", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: math.MaxInt32})
		require.NoError(err)
		count, err := other.Execute(ctx, &msg.Increment{})
		require.NoError(err)
		require.Equal(int32(math.MinInt32), count)
	})

	ginkgo.It("rejects undecodable messages", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 1})
		require.NoError(err)
		_, err = owner.ExecuteRaw(ctx, []byte(`{"increment":{},"decrement":{}}`))
		require.ErrorIs(err, msg.ErrDecode)
	})

	ginkgo.It("fails before instantiation", func() {
		require := require.New(ginkgo.GinkgoT())
		_, err := owner.Execute(ctx, &msg.Decrement{})
		require.ErrorIs(err, counter.ErrNotInstantiated)
		_, err = owner.GetCount(ctx)
		require.ErrorIs(err, counter.ErrNotInstantiated)
	})

	ginkgo.It("rejects bad signatures", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 1})
		require.NoError(err)

		nonce, err := owner.Nonce(ctx, owner.Address())
		require.NoError(err)
		args := jsonrpc.NewSignedArgs([]byte(`{"reset":{"count":0}}`), nonce, ownerK)
		args.Message = []byte(`{"reset":{"count":9}}`)
		_, err = other.ExecuteSigned(ctx, args)
		require.ErrorIs(err, crypto.ErrInvalidSignature)

		// the nonce is covered by the signature too
		args = jsonrpc.NewSignedArgs([]byte(`{"reset":{"count":0}}`), nonce, ownerK)
		args.Nonce++
		_, err = other.ExecuteSigned(ctx, args)
		require.ErrorIs(err, crypto.ErrInvalidSignature)

		count, err := owner.GetCount(ctx)
		require.NoError(err)
		require.Equal(int32(1), count)
	})

	ginkgo.It("cannot be instantiated twice", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 17})
		require.NoError(err)
		_, err = owner.Execute(ctx, &msg.Reset{Count: 5})
		require.NoError(err)

		_, _, err = other.Instantiate(ctx, &msg.Init{Count: 0})
		require.ErrorIs(err, counter.ErrAlreadyInstantiated)
		_, _, err = owner.Instantiate(ctx, &msg.Init{Count: 0})
		require.ErrorIs(err, counter.ErrAlreadyInstantiated)

		st, err := other.State(ctx)
		require.NoError(err)
		require.Equal(int32(5), st.Count)
		require.True(st.Reset)
		addr, err := codec.AddressBech32(consts.HRP, owner.Address())
		require.NoError(err)
		require.Equal(addr, st.Owner)

		_, err = other.Execute(ctx, &msg.Reset{Count: 0})
		require.ErrorIs(err, counter.ErrUnauthorized)
	})

	ginkgo.It("rejects a replayed signed reset", func() {
		require := require.New(ginkgo.GinkgoT())
		_, _, err := owner.Instantiate(ctx, &msg.Init{Count: 17})
		require.NoError(err)

		nonce, err := owner.Nonce(ctx, owner.Address())
		require.NoError(err)
		require.Equal(uint64(1), nonce)
		signed := jsonrpc.NewSignedArgs([]byte(`{"reset":{"count":5}}`), nonce, ownerK)
		count, err := other.ExecuteSigned(ctx, signed)
		require.NoError(err)
		require.Equal(int32(5), count)

		count, err = other.Execute(ctx, &msg.IncrementBy{Amount: 10})
		require.NoError(err)
		require.Equal(int32(15), count)

		_, err = other.ExecuteSigned(ctx, signed)
		require.ErrorIs(err, storage.ErrInvalidNonce)
		count, err = other.GetCount(ctx)
		require.NoError(err)
		require.Equal(int32(15), count)
	})
})
