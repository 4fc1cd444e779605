// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// ToID hashes [bytes] into an identifier.
func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

// InitSubDirectory creates [rootPath]/[name] if missing and returns it.
func InitSubDirectory(rootPath string, name string) (string, error) {
	p := filepath.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outf prints a colorized message to stdout.
//
//	Outf("{{green}}count:{{/}} %d\n", 5)
func Outf(format string, args ...interface{}) {
	fmt.Fprint(formatter.ColorableStdOut, formatter.F(format, args...))
}

// Errf prints a colorized message to stderr.
func Errf(format string, args ...interface{}) {
	fmt.Fprint(formatter.ColorableStdErr, formatter.F(format, args...))
}
