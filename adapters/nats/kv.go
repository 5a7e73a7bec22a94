package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/codewandler/actr-go/ports/kv"
)

const DefaultBucket = "actr_tallies"

type KvConfig struct {
	Connect Connector
	// Bucket defaults to DefaultBucket.
	Bucket string
	// MaxBytes caps the bucket size. Defaults to 1 MiB.
	MaxBytes int64
}

// KvStore is a kv.Store on a JetStream key-value bucket.
type KvStore struct {
	kv    jetstream.KeyValue
	close closeFunc
}

// NewKvStore connects and creates the bucket if it does not exist yet.
func NewKvStore(ctx context.Context, cfg KvConfig) (*KvStore, error) {
	if cfg.Connect == nil {
		cfg.Connect = ConnectDefault()
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 1024 * 1024
	}

	nc, closeConn, err := cfg.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		closeConn()
		return nil, err
	}

	bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:   cfg.Bucket,
		Storage:  jetstream.FileStorage,
		MaxBytes: cfg.MaxBytes,
	})
	if err != nil {
		closeConn()
		return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
	}

	return &KvStore{kv: bucket, close: closeConn}, nil
}

func (s *KvStore) Put(ctx context.Context, key string, entry kv.Entry) error {
	if _, err := s.kv.Put(ctx, key, entry.Data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *KvStore) Get(ctx context.Context, key string) (kv.Entry, error) {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return kv.Entry{}, kv.ErrNotFound
		}
		return kv.Entry{}, fmt.Errorf("get %s: %w", key, err)
	}
	return kv.Entry{Data: v.Value()}, nil
}

func (s *KvStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *KvStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for k := range lister.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Close releases the connection.
func (s *KvStore) Close() { s.close() }

var _ kv.Store = (*KvStore)(nil)
