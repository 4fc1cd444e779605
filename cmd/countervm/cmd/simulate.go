// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/vm"
)

const simulatorFolder = "countervm-simulate-*"

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan file|-]",
	Short: "Replays a plan against an isolated counter store",
	Long: `Replays a YAML or JSON plan against an isolated counter store and
prints one JSON response per step. Caller keys named in the plan are
generated on first use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readPlan(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		plan, err := unmarshalPlan(b)
		if err != nil {
			return err
		}

		dir, err := os.MkdirTemp("", simulatorFolder)
		if err != nil {
			return err
		}
		if !keepDB {
			defer os.RemoveAll(dir)
		}
		level := logging.Info
		if len(logLevel) > 0 {
			level, err = logging.ToLevel(logLevel)
			if err != nil {
				return err
			}
		}
		log, closeLog, err := newLogger(filepath.Join(dir, "logs"), level, false, "simulator")
		if err != nil {
			return err
		}
		defer closeLog()

		db, _, err := pebble.New(filepath.Join(dir, "db"), pebble.NewDefaultConfig())
		if err != nil {
			return err
		}
		s, err := newSimulator(log, db)
		if err != nil {
			return closeAll(log, err, db.Close)
		}
		log.Info("simulating plan",
			zap.String("name", plan.Name),
			zap.Int("steps", len(plan.Steps)),
			zap.String("dir", dir),
		)
		err = s.run(cmd.Context(), plan, cmd.OutOrStdout())
		return closeAll(log, err, db.Close)
	},
}

func readPlan(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

type simulator struct {
	log   logging.Logger
	store state.Mutable
	vm    *vm.VM
}

func newSimulator(log logging.Logger, store state.Mutable) (*simulator, error) {
	cvm, _, err := vm.New(store, vm.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &simulator{
		log:   log,
		store: store,
		vm:    cvm,
	}, nil
}

// run executes every step of [plan], writing a response per step to [w].
// Steps keep running after a failed assertion; the first failure is
// returned.
func (s *simulator) run(ctx context.Context, plan *Plan, w io.Writer) error {
	var failed error
	for i, step := range plan.Steps {
		resp := newResponse(i)
		count, stepErr := s.step(ctx, plan, &step, resp)
		if stepErr != nil {
			resp.setError(stepErr)
		}
		if err := checkRequire(step.Require, count, stepErr); err != nil {
			resp.setError(err)
			if failed == nil {
				failed = err
			}
		}
		s.log.Debug("step complete",
			zap.Int("id", i),
			zap.String("endpoint", string(step.Endpoint)),
			zap.String("error", resp.Error),
		)
		if err := resp.Print(w); err != nil {
			return err
		}
	}
	return failed
}

func (s *simulator) step(ctx context.Context, plan *Plan, step *Step, resp *Response) (*int32, error) {
	message := []byte(step.Message)
	if step.Endpoint == EndpointQuery {
		out, err := s.vm.Query(ctx, message)
		if err != nil {
			return nil, err
		}
		resp.Result.Response = out
		if c, err := msg.UnmarshalGetCountResponse(out); err == nil {
			resp.Result.Count = &c.Count
		}
		return resp.Result.Count, nil
	}

	name := step.CallerKey
	if len(name) == 0 {
		name = plan.CallerKey
	}
	caller, err := s.caller(ctx, name)
	if err != nil {
		return nil, err
	}
	resp.Result.Caller, err = codec.AddressBech32(consts.HRP, caller)
	if err != nil {
		return nil, err
	}

	switch step.Endpoint {
	case EndpointInstantiate:
		c, err := s.vm.Instantiate(ctx, caller, message)
		if err != nil {
			return nil, err
		}
		resp.Result.Count = &c.Value
	case EndpointExecute:
		r, err := s.vm.Execute(ctx, caller, message)
		if err != nil {
			return nil, err
		}
		resp.Result.Count = &r.Count
	default:
		return nil, ErrInvalidEndpoint
	}
	return resp.Result.Count, nil
}

// caller returns the identity of the key named [name], generating and
// storing the key on first use.
func (s *simulator) caller(ctx context.Context, name string) (codec.Address, error) {
	priv, ok, err := storage.GetKey(ctx, s.store, name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !ok {
		priv, err = ed25519.GeneratePrivateKey()
		if err != nil {
			return codec.EmptyAddress, err
		}
		if err := storage.SetKey(ctx, s.store, name, priv); err != nil {
			return codec.EmptyAddress, err
		}
		s.log.Debug("generated key", zap.String("name", name))
	}
	return auth.NewED25519Address(priv.PublicKey()), nil
}
