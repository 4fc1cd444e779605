// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/avalanchego/utils/wrappers"

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. It adds the
// fixed-width signed integers and addresses used by the
// counter wire format.
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance with the current byte array
// initialized to [src]. [limit] is the largest input accepted.
func NewReader(src []byte, limit int) *Packer {
	p := &wrappers.Packer{Bytes: src, MaxSize: limit}
	return &Packer{p}
}

// NewWriter returns a Packer instance with an initial size of [initial] and a
// MaxSize set to [limit].
func NewWriter(initial, limit int) *Packer {
	p := &wrappers.Packer{Bytes: make([]byte, 0, initial), MaxSize: limit}
	return &Packer{p}
}

func (p *Packer) PackByte(b byte) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() byte {
	return p.p.UnpackByte()
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

// PackInt32 writes [v] as its two's complement big-endian representation.
func (p *Packer) PackInt32(v int32) {
	p.p.PackInt(uint32(v))
}

func (p *Packer) UnpackInt32() int32 {
	return int32(p.p.UnpackInt())
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

func (p *Packer) UnpackUint64() uint64 {
	return p.p.UnpackLong()
}

func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

func (p *Packer) UnpackAddress(dest *Address) {
	copy((*dest)[:], p.p.UnpackFixedBytes(AddressLen))
	if p.Err() != nil {
		*dest = EmptyAddress
	}
}

func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

func (p *Packer) Offset() int {
	return p.p.Offset
}

func (p *Packer) Err() error {
	return p.p.Err
}

func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

// Done returns the first packing error, or [ErrTrailingBytes] if the reader
// has unread input left.
func (p *Packer) Done() error {
	if err := p.Err(); err != nil {
		return err
	}
	if !p.Empty() {
		return ErrTrailingBytes
	}
	return nil
}
