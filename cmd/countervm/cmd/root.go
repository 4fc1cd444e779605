// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/pebble"
)

const (
	defaultDatabase = ".countervm-cli"
	defaultEndpoint = "http://127.0.0.1:9650"
)

var (
	dbPath     string
	endpoint   string
	configFile string
	logLevel   string
	dataDir    string
	httpAddr   string
	keepDB     bool

	rootCmd = &cobra.Command{
		Use:        consts.Name,
		Short:      "Counter VM node and client",
		SuggestFor: []string{"countervm", "counter-vm"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.DisableAutoGenTag = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		serveCmd,
		keyCmd,
		instantiateCmd,
		executeCmd,
		queryCmd,
		stateCmd,
		simulateCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"database",
		defaultDatabase,
		"path to the key database (created if missing)",
	)
	rootCmd.PersistentFlags().StringVar(
		&endpoint,
		"endpoint",
		defaultEndpoint,
		"node URI",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"log level (overrides the config file)",
	)

	// serve
	serveCmd.Flags().StringVar(
		&configFile,
		"config",
		"",
		"path to a YAML or JSON config file",
	)
	serveCmd.Flags().StringVar(
		&dataDir,
		"data-dir",
		"",
		"directory of the counter store (overrides the config file)",
	)
	serveCmd.Flags().StringVar(
		&httpAddr,
		"http-address",
		"",
		"listen address (overrides the config file)",
	)

	// key
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		listKeyCmd,
		setKeyCmd,
	)

	// simulate
	simulateCmd.Flags().BoolVar(
		&keepDB,
		"keep",
		false,
		"keep the simulation store instead of removing it on exit",
	)
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// openKeyDB opens the CLI database holding named keys.
func openKeyDB() (*pebble.Database, error) {
	db, _, err := pebble.New(dbPath, pebble.NewDefaultConfig())
	return db, err
}
