// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package msg

import (
	"encoding/json"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
)

const (
	IncrementID uint8 = iota
	DecrementID
	IncrementByID
	DecrementByID
	SetValueID
	ResetID
)

const (
	IncrementName   = "increment"
	DecrementName   = "decrement"
	IncrementByName = "increment_by"
	DecrementByName = "decrement_by"
	SetValueName    = "set_value"
	ResetName       = "reset"

	// UpdateStateName is accepted as an alias of [SetValueName].
	UpdateStateName = "update_state"
)

// Command is one variant of the state mutating message family. The set of
// variants is closed: only the types in this file implement it.
type Command interface {
	GetTypeID() uint8
	// Name is the variant tag used on the JSON wire.
	Name() string
	// Size is the packed length of the variant's fields.
	Size() int
	Marshal(p *codec.Packer)

	command()
}

var (
	_ Command = (*Increment)(nil)
	_ Command = (*Decrement)(nil)
	_ Command = (*IncrementBy)(nil)
	_ Command = (*DecrementBy)(nil)
	_ Command = (*SetValue)(nil)
	_ Command = (*Reset)(nil)
)

type Increment struct{}

func (*Increment) GetTypeID() uint8      { return IncrementID }
func (*Increment) Name() string          { return IncrementName }
func (*Increment) Size() int             { return 0 }
func (*Increment) Marshal(*codec.Packer) {}
func (*Increment) command()              {}

type Decrement struct{}

func (*Decrement) GetTypeID() uint8      { return DecrementID }
func (*Decrement) Name() string          { return DecrementName }
func (*Decrement) Size() int             { return 0 }
func (*Decrement) Marshal(*codec.Packer) {}
func (*Decrement) command()              {}

type IncrementBy struct {
	Amount int32 `json:"amount"`
}

func (*IncrementBy) GetTypeID() uint8          { return IncrementByID }
func (*IncrementBy) Name() string              { return IncrementByName }
func (*IncrementBy) Size() int                 { return consts.Int32Len }
func (i *IncrementBy) Marshal(p *codec.Packer) { p.PackInt32(i.Amount) }
func (*IncrementBy) command()                  {}

type DecrementBy struct {
	Amount int32 `json:"amount"`
}

func (*DecrementBy) GetTypeID() uint8          { return DecrementByID }
func (*DecrementBy) Name() string              { return DecrementByName }
func (*DecrementBy) Size() int                 { return consts.Int32Len }
func (d *DecrementBy) Marshal(p *codec.Packer) { p.PackInt32(d.Amount) }
func (*DecrementBy) command()                  {}

// SetValue overwrites the counter. Any caller may send it.
type SetValue struct {
	NewValue int32 `json:"new_value"`
}

func (*SetValue) GetTypeID() uint8          { return SetValueID }
func (*SetValue) Name() string              { return SetValueName }
func (*SetValue) Size() int                 { return consts.Int32Len }
func (s *SetValue) Marshal(p *codec.Packer) { p.PackInt32(s.NewValue) }
func (*SetValue) command()                  {}

// Reset overwrites the counter. Only the owner may send it.
type Reset struct {
	Count int32 `json:"count"`
}

func (*Reset) GetTypeID() uint8          { return ResetID }
func (*Reset) Name() string              { return ResetName }
func (*Reset) Size() int                 { return consts.Int32Len }
func (r *Reset) Marshal(p *codec.Packer) { p.PackInt32(r.Count) }
func (*Reset) command()                  {}

var commandParser = newCommandParser()

func newCommandParser() *codec.TypeParser[Command] {
	p := codec.NewTypeParser[Command]()
	errs := []error{
		p.Register(IncrementID, IncrementName, codec.Decoder[Command]{
			JSON:   jsonCommand[Increment](),
			Binary: func(*codec.Packer) (Command, error) { return &Increment{}, nil },
		}),
		p.Register(DecrementID, DecrementName, codec.Decoder[Command]{
			JSON:   jsonCommand[Decrement](),
			Binary: func(*codec.Packer) (Command, error) { return &Decrement{}, nil },
		}),
		p.Register(IncrementByID, IncrementByName, codec.Decoder[Command]{
			JSON: jsonCommand[IncrementBy]("amount"),
			Binary: func(p *codec.Packer) (Command, error) {
				return &IncrementBy{Amount: p.UnpackInt32()}, p.Err()
			},
		}),
		p.Register(DecrementByID, DecrementByName, codec.Decoder[Command]{
			JSON: jsonCommand[DecrementBy]("amount"),
			Binary: func(p *codec.Packer) (Command, error) {
				return &DecrementBy{Amount: p.UnpackInt32()}, p.Err()
			},
		}),
		p.Register(SetValueID, SetValueName, codec.Decoder[Command]{
			JSON: jsonCommand[SetValue]("new_value"),
			Binary: func(p *codec.Packer) (Command, error) {
				return &SetValue{NewValue: p.UnpackInt32()}, p.Err()
			},
		}),
		p.RegisterAlias(SetValueID, UpdateStateName),
		p.Register(ResetID, ResetName, codec.Decoder[Command]{
			JSON: jsonCommand[Reset]("count"),
			Binary: func(p *codec.Packer) (Command, error) {
				return &Reset{Count: p.UnpackInt32()}, p.Err()
			},
		}),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
	return p
}

// jsonCommand decodes the payload of a variant whose pointer type is a
// [Command].
func jsonCommand[T any, PT interface {
	*T
	Command
}](fields ...string) func(json.RawMessage) (Command, error) {
	return func(raw json.RawMessage) (Command, error) {
		v, err := decodeStrict[T](raw, fields...)
		if err != nil {
			return nil, err
		}
		return PT(v), nil
	}
}

// CommandNames returns every accepted command tag.
func CommandNames() []string {
	return commandParser.Names()
}

// MarshalCommand returns the JSON wire form, e.g. {"increment_by":{"amount":5}}.
func MarshalCommand(c Command) ([]byte, error) {
	return marshalTagged(c.Name(), c)
}

// UnmarshalCommand parses the JSON wire form. Any failure is a [DecodeError].
func UnmarshalCommand(b []byte) (Command, error) {
	c, err := unmarshalTagged(commandParser, b)
	if err != nil {
		return nil, newDecodeError("command", err)
	}
	return c, nil
}

// PackCommand returns the binary wire form: the type ID followed by the
// variant's fields.
func PackCommand(c Command) ([]byte, error) {
	size := consts.ByteLen + c.Size()
	p := codec.NewWriter(size, size)
	p.PackByte(c.GetTypeID())
	c.Marshal(p)
	return p.Bytes(), p.Err()
}

// UnpackCommand parses the binary wire form. Any failure is a [DecodeError].
func UnpackCommand(b []byte) (Command, error) {
	c, err := unpackTagged(commandParser, b)
	if err != nil {
		return nil, newDecodeError("command", err)
	}
	return c, nil
}
