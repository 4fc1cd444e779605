// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type testVariant string

func newTestDecoder(v testVariant) Decoder[testVariant] {
	return Decoder[testVariant]{
		JSON:   func(json.RawMessage) (testVariant, error) { return v, nil },
		Binary: func(*Packer) (testVariant, error) { return v, nil },
	}
}

func TestTypeParser(t *testing.T) {
	require := require.New(t)
	p := NewTypeParser[testVariant]()

	require.NoError(p.Register(0, "first", newTestDecoder("first")))
	require.NoError(p.Register(1, "second", newTestDecoder("second")))
	require.NoError(p.RegisterAlias(1, "deuxieme"))

	require.ErrorIs(p.Register(0, "third", newTestDecoder("third")), ErrDuplicateItem)
	require.ErrorIs(p.Register(2, "first", newTestDecoder("first")), ErrDuplicateItem)
	require.ErrorIs(p.RegisterAlias(0, "second"), ErrDuplicateItem)

	d, ok := p.LookupName("deuxieme")
	require.True(ok)
	v, err := d.JSON(nil)
	require.NoError(err)
	require.Equal(testVariant("second"), v)

	d, ok = p.LookupIndex(0)
	require.True(ok)
	v, err = d.Binary(nil)
	require.NoError(err)
	require.Equal(testVariant("first"), v)

	_, ok = p.LookupName("missing")
	require.False(ok)
	_, ok = p.LookupIndex(7)
	require.False(ok)

	require.Equal([]string{"deuxieme", "first", "second"}, p.Names())
}
