// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"errors"
	"slices"

	"golang.org/x/exp/maps"
)

var ErrDuplicateItem = errors.New("duplicate item")

// Decoder turns the payload of one tagged union variant back into a value.
type Decoder[T any] struct {
	JSON   func(json.RawMessage) (T, error)
	Binary func(*Packer) (T, error)
}

// TypeParser maps the variants of a closed tagged union to their tag name,
// their type ID and their decoders. A variant may be registered under
// additional alias names that decode to it.
type TypeParser[T any] struct {
	nameToIndex    map[string]uint8
	indexToDecoder map[uint8]Decoder[T]
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		nameToIndex:    map[string]uint8{},
		indexToDecoder: map[uint8]Decoder[T]{},
	}
}

func (p *TypeParser[T]) Register(index uint8, name string, d Decoder[T]) error {
	if _, ok := p.nameToIndex[name]; ok {
		return ErrDuplicateItem
	}
	if _, ok := p.indexToDecoder[index]; ok {
		return ErrDuplicateItem
	}
	p.nameToIndex[name] = index
	p.indexToDecoder[index] = d
	return nil
}

// RegisterAlias makes [alias] decode as the variant registered at [index].
func (p *TypeParser[T]) RegisterAlias(index uint8, alias string) error {
	if _, ok := p.nameToIndex[alias]; ok {
		return ErrDuplicateItem
	}
	p.nameToIndex[alias] = index
	return nil
}

func (p *TypeParser[T]) LookupName(name string) (Decoder[T], bool) {
	index, ok := p.nameToIndex[name]
	if !ok {
		return Decoder[T]{}, false
	}
	return p.indexToDecoder[index], true
}

func (p *TypeParser[T]) LookupIndex(index uint8) (Decoder[T], bool) {
	d, ok := p.indexToDecoder[index]
	return d, ok
}

// Names returns every accepted tag, aliases included, sorted.
func (p *TypeParser[T]) Names() []string {
	names := maps.Keys(p.nameToIndex)
	slices.Sort(names)
	return names
}
