// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/state"
)

// Key storage lives in the CLI database, never in the counter store.
const (
	keyPrefix       = 0x1
	keyIndexPrefix  = 0x2
	activeKeyPrefix = 0x3
)

var (
	ErrDuplicateKeyName = errors.New("duplicate key name")
	ErrKeyNotFound      = errors.New("key not found")
	ErrNoActiveKey      = errors.New("no active key")
	ErrCorruptKey       = errors.New("corrupt key")

	keyIndexKey  = []byte{keyIndexPrefix}
	activeKeyKey = []byte{activeKeyPrefix}
)

// [keyPrefix] + [name]
func KeyKey(name string) (k []byte) {
	k = make([]byte, 1+len(name))
	k[0] = keyPrefix
	copy(k[1:], name)
	return
}

func GetKey(ctx context.Context, im state.Immutable, name string) (ed25519.PrivateKey, bool, error) {
	v, err := im.GetValue(ctx, KeyKey(name))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, false, nil
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, false, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return ed25519.EmptyPrivateKey, false, fmt.Errorf("%w: %s", ErrCorruptKey, name)
	}
	return ed25519.PrivateKey(v), true, nil
}

// SetKey stores [priv] under [name] and records [name] in the key index.
// Names are unique.
func SetKey(ctx context.Context, mu state.Mutable, name string, priv ed25519.PrivateKey) error {
	_, exists, err := GetKey(ctx, mu, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	}
	names, err := ListKeys(ctx, mu)
	if err != nil {
		return err
	}
	names = append(names, name)
	slices.Sort(names)
	index, err := borsh.Serialize(names)
	if err != nil {
		return err
	}
	if err := mu.Insert(ctx, KeyKey(name), priv[:]); err != nil {
		return err
	}
	return mu.Insert(ctx, keyIndexKey, index)
}

// ListKeys returns every stored key name in lexical order.
func ListKeys(ctx context.Context, im state.Immutable) ([]string, error) {
	v, err := im.GetValue(ctx, keyIndexKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	if err := borsh.Deserialize(&names, v); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrCorruptKey, err)
	}
	return names, nil
}

func SetActiveKey(ctx context.Context, mu state.Mutable, name string) error {
	_, exists, err := GetKey(ctx, mu, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return mu.Insert(ctx, activeKeyKey, []byte(name))
}

// GetActiveKey returns the name and private key used to sign requests.
func GetActiveKey(ctx context.Context, im state.Immutable) (string, ed25519.PrivateKey, error) {
	v, err := im.GetValue(ctx, activeKeyKey)
	if errors.Is(err, database.ErrNotFound) {
		return "", ed25519.EmptyPrivateKey, ErrNoActiveKey
	}
	if err != nil {
		return "", ed25519.EmptyPrivateKey, err
	}
	name := string(v)
	priv, exists, err := GetKey(ctx, im, name)
	if err != nil {
		return "", ed25519.EmptyPrivateKey, err
	}
	if !exists {
		return "", ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return name, priv, nil
}
