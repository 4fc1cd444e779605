// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/api/jsonrpc"
	"github.com/ava-labs/countervm/cli/prompt"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/msg"
	"github.com/ava-labs/countervm/utils"
)

var instantiateCmd = &cobra.Command{
	Use:   "instantiate [count]",
	Short: "Creates the counter owned by the active key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		count, err := int32Arg(args, 0, "initial count")
		if err != nil {
			return err
		}
		cli, err := signingClient(cmd)
		if err != nil {
			return err
		}
		count, owner, err := cli.Instantiate(ctx, &msg.Init{Count: count})
		if err != nil {
			return err
		}
		addr, err := codec.AddressBech32(consts.HRP, owner)
		if err != nil {
			return err
		}
		utils.Outf("{{green}}instantiated:{{/}} count=%d owner=%s\n", count, addr)
		return nil
	},
}

var executeCmd = &cobra.Command{
	Use:   "execute [command] [argument]",
	Short: "Executes a command signed by the active key",
	Long:  "Executes a command signed by the active key. Prompts for the command when omitted.",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := commandArgs(args)
		if err != nil {
			return err
		}
		cli, err := signingClient(cmd)
		if err != nil {
			return err
		}
		count, err := cli.Execute(ctx, c)
		if err != nil {
			return err
		}
		utils.Outf("{{green}}%s:{{/}} count=%d\n", c.Name(), count)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:       "query [get_count|has_reset]",
	Short:     "Queries the counter",
	Args:      cobra.ExactArgs(1),
	ValidArgs: msg.QueryNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := newQuery(args[0])
		if err != nil {
			return err
		}
		cli := jsonrpc.NewJSONRPCClient(endpoint, ed25519.EmptyPrivateKey)
		resp, err := cli.Query(cmd.Context(), q)
		if err != nil {
			return err
		}
		utils.Outf("{{green}}%s:{{/}} %s\n", q.Name(), resp)
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Prints the whole counter record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli := jsonrpc.NewJSONRPCClient(endpoint, ed25519.EmptyPrivateKey)
		st, err := cli.State(cmd.Context())
		if err != nil {
			return err
		}
		utils.Outf("{{green}}count:{{/}} %d\n{{green}}owner:{{/}} %s\n{{green}}reset:{{/}} %t\n", st.Count, st.Owner, st.Reset)
		return nil
	},
}

func signingClient(cmd *cobra.Command) (*jsonrpc.JSONRPCClient, error) {
	priv, err := activeKey(cmd.Context())
	if err != nil {
		return nil, err
	}
	return jsonrpc.NewJSONRPCClient(endpoint, priv), nil
}

// int32Arg parses args[i], prompting with [label] when it is missing.
func int32Arg(args []string, i int, label string) (int32, error) {
	if len(args) > i {
		return prompt.ParseInt32(args[i])
	}
	return prompt.Int32(label)
}

// commandArgs builds a command from "[name] [argument]", prompting for
// whatever is missing.
func commandArgs(args []string) (msg.Command, error) {
	if len(args) == 0 {
		return prompt.Command("command")
	}
	name := args[0]
	argName, ok := prompt.CommandArgument(name)
	if !ok {
		if len(args) > 1 {
			return nil, fmt.Errorf("%w: %s takes no argument", ErrInvalidArgs, name)
		}
		return prompt.NewCommand(name, 0)
	}
	v, err := int32Arg(args, 1, argName)
	if err != nil {
		return nil, err
	}
	return prompt.NewCommand(name, v)
}

func newQuery(name string) (msg.Query, error) {
	switch name {
	case msg.GetCountName:
		return &msg.GetCount{}, nil
	case msg.HasResetName:
		return &msg.HasReset{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
	}
}
