// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msg

import (
	"encoding/json"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

const (
	GetCountID uint8 = iota
	HasResetID
)

const (
	GetCountName = "get_count"
	HasResetName = "has_reset"
)

// Query is one variant of the read-only message family.
type Query interface {
	GetTypeID() uint8
	Name() string

	query()
}

var (
	_ Query = (*GetCount)(nil)
	_ Query = (*HasReset)(nil)
)

// GetCount is answered with a [GetCountResponse].
type GetCount struct{}

func (*GetCount) GetTypeID() uint8 { return GetCountID }
func (*GetCount) Name() string     { return GetCountName }
func (*GetCount) query()           {}

// HasReset is answered with a JSON boolean.
type HasReset struct{}

func (*HasReset) GetTypeID() uint8 { return HasResetID }
func (*HasReset) Name() string     { return HasResetName }
func (*HasReset) query()           {}

type GetCountResponse struct {
	Count int32 `json:"count"`
}

var queryParser = newQueryParser()

func newQueryParser() *codec.TypeParser[Query] {
	p := codec.NewTypeParser[Query]()
	errs := []error{
		p.Register(GetCountID, GetCountName, codec.Decoder[Query]{
			JSON:   jsonQuery[GetCount](),
			Binary: func(*codec.Packer) (Query, error) { return &GetCount{}, nil },
		}),
		p.Register(HasResetID, HasResetName, codec.Decoder[Query]{
			JSON:   jsonQuery[HasReset](),
			Binary: func(*codec.Packer) (Query, error) { return &HasReset{}, nil },
		}),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
	return p
}

func jsonQuery[T any, PT interface {
	*T
	Query
}](fields ...string) func(json.RawMessage) (Query, error) {
	return func(raw json.RawMessage) (Query, error) {
		v, err := decodeStrict[T](raw, fields...)
		if err != nil {
			return nil, err
		}
		return PT(v), nil
	}
}

// QueryNames returns every accepted query tag.
func QueryNames() []string {
	return queryParser.Names()
}

// MarshalQuery returns the JSON wire form, e.g. {"get_count":{}}.
func MarshalQuery(q Query) ([]byte, error) {
	return marshalTagged(q.Name(), q)
}

// UnmarshalQuery parses the JSON wire form. Any failure is a [DecodeError].
func UnmarshalQuery(b []byte) (Query, error) {
	q, err := unmarshalTagged(queryParser, b)
	if err != nil {
		return nil, newDecodeError("query", err)
	}
	return q, nil
}

func PackQuery(q Query) ([]byte, error) {
	p := codec.NewWriter(consts.ByteLen, consts.ByteLen)
	p.PackByte(q.GetTypeID())
	return p.Bytes(), p.Err()
}

// UnpackQuery parses the binary wire form. Any failure is a [DecodeError].
func UnpackQuery(b []byte) (Query, error) {
	q, err := unpackTagged(queryParser, b)
	if err != nil {
		return nil, newDecodeError("query", err)
	}
	return q, nil
}

// UnmarshalGetCountResponse parses the answer to [GetCount].
func UnmarshalGetCountResponse(b []byte) (GetCountResponse, error) {
	v, err := decodeStrict[GetCountResponse](b, "count")
	if err != nil {
		return GetCountResponse{}, newDecodeError("query response", err)
	}
	return *v, nil
}

// UnmarshalHasResetResponse parses the answer to [HasReset].
func UnmarshalHasResetResponse(b []byte) (bool, error) {
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return false, newDecodeError("query response", err)
	}
	return v, nil
}
