// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msg

import (
	"encoding/json"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

// Init creates the counter. Every int32 is a valid starting count.
type Init struct {
	Count int32 `json:"count"`
}

func MarshalInit(i *Init) ([]byte, error) {
	return json.Marshal(i)
}

// UnmarshalInit parses {"count": n}. Any failure is a [DecodeError].
func UnmarshalInit(b []byte) (*Init, error) {
	i, err := decodeStrict[Init](b, "count")
	if err != nil {
		return nil, newDecodeError("init", err)
	}
	return i, nil
}

func PackInit(i *Init) ([]byte, error) {
	p := codec.NewWriter(consts.Int32Len, consts.Int32Len)
	p.PackInt32(i.Count)
	return p.Bytes(), p.Err()
}

func UnpackInit(b []byte) (*Init, error) {
	p := codec.NewReader(b, consts.Int32Len)
	i := &Init{Count: p.UnpackInt32()}
	if err := p.Done(); err != nil {
		return nil, newDecodeError("init", err)
	}
	return i, nil
}
