// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "github.com/ava-labs/countervm/codec"

// IsAuthorized reports whether [caller] may perform owner-only commands.
// There are no roles or delegation: only the owner itself qualifies.
func IsAuthorized(caller codec.Address, owner codec.Address) bool {
	return caller == owner
}
