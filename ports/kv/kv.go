// Package kv is the storage port for small JSON documents keyed by string,
// used to persist dinner tallies. MemStore is the in-process implementation;
// adapters/nats provides a JetStream-backed one.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type Entry struct {
	Data []byte
}

type Store interface {
	Put(ctx context.Context, key string, entry Entry) error
	// Get returns ErrNotFound for unknown keys.
	Get(ctx context.Context, key string) (Entry, error)
	Delete(ctx context.Context, key string) error
	// Keys lists all keys starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

func Put[T any](ctx context.Context, store Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Put(ctx, key, Entry{Data: data})
}

func Get[T any](ctx context.Context, store Store, key string) (out T, err error) {
	entry, err := store.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err = json.Unmarshal(entry.Data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}
