// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "countervm" runs and drives a counter node
package main

import (
	"context"
	"os"

	"github.com/ava-labs/countervm/cmd/countervm/cmd"
	"github.com/ava-labs/countervm/utils"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		utils.Errf("{{red}}countervm exited with error:{{/}} %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
