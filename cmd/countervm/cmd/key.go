// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/cli/prompt"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/state"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/utils"
)

var keyCmd = &cobra.Command{
	Use: "key",
	RunE: func(*cobra.Command, []string) error {
		return ErrInvalidArgs
	},
}

var genKeyCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Generates a new ed25519 key and makes it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		return withKeyDB(func(db *pebble.Database) error {
			return storeKey(cmd.Context(), db, args[0], priv)
		})
	},
}

var importKeyCmd = &cobra.Command{
	Use:   "import [name] [hex private key]",
	Short: "Imports an ed25519 key and makes it active",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		priv, err := ed25519.HexToPrivateKey(args[1])
		if err != nil {
			return err
		}
		return withKeyDB(func(db *pebble.Database) error {
			return storeKey(cmd.Context(), db, args[0], priv)
		})
	},
}

var listKeyCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists stored keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withKeyDB(func(db *pebble.Database) error {
			ctx := cmd.Context()
			names, err := storage.ListKeys(ctx, db)
			if err != nil {
				return err
			}
			active, _, err := storage.GetActiveKey(ctx, db)
			switch {
			case errors.Is(err, storage.ErrNoActiveKey):
				utils.Outf("{{yellow}}no active key{{/}}\n")
			case err != nil:
				return err
			}
			for i, name := range names {
				priv, _, err := storage.GetKey(ctx, db, name)
				if err != nil {
					return err
				}
				addr, err := bech32Address(priv)
				if err != nil {
					return err
				}
				marker := " "
				if name == active {
					marker = "*"
				}
				utils.Outf("%s%d) {{cyan}}%s{{/}} %s\n", marker, i, name, addr)
			}
			return nil
		})
	},
}

var setKeyCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Sets the key used to sign requests",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKeyDB(func(db *pebble.Database) error {
			ctx := cmd.Context()
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				names, err := storage.ListKeys(ctx, db)
				if err != nil {
					return err
				}
				name, err = prompt.Key("set active key", names)
				if err != nil {
					return err
				}
			}
			if err := storage.SetActiveKey(ctx, db, name); err != nil {
				return err
			}
			utils.Outf("{{green}}active key:{{/}} %s\n", name)
			return nil
		})
	},
}

func storeKey(ctx context.Context, mu state.Mutable, name string, priv ed25519.PrivateKey) error {
	if err := storage.SetKey(ctx, mu, name, priv); err != nil {
		return err
	}
	if err := storage.SetActiveKey(ctx, mu, name); err != nil {
		return err
	}
	addr, err := bech32Address(priv)
	if err != nil {
		return err
	}
	utils.Outf("{{green}}stored key:{{/}} %s {{cyan}}%s{{/}}\n", name, addr)
	return nil
}

func bech32Address(priv ed25519.PrivateKey) (string, error) {
	return codec.AddressBech32(consts.HRP, auth.NewED25519Address(priv.PublicKey()))
}

func withKeyDB(f func(*pebble.Database) error) error {
	db, err := openKeyDB()
	if err != nil {
		return err
	}
	if err := f(db); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}

// activeKey returns the key that signs client requests.
func activeKey(ctx context.Context) (ed25519.PrivateKey, error) {
	var priv ed25519.PrivateKey
	err := withKeyDB(func(db *pebble.Database) error {
		name, p, err := storage.GetActiveKey(ctx, db)
		if err != nil {
			return fmt.Errorf("%w: run \"%s key generate\" first", err, consts.Name)
		}
		utils.Outf("{{yellow}}signing as:{{/}} %s\n", name)
		priv = p
		return nil
	})
	return priv, err
}
