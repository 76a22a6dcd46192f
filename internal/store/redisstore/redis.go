package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/port"
	"github.com/redis/go-redis/v9"
)

type blobStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBlobStore stores blobs under "cart:<key>". A zero ttl keeps them forever.
func NewBlobStore(client *redis.Client, ttl time.Duration) port.BlobStore {
	return &blobStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, blobKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("key[%s]: %w", key, domain.ErrBlobMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return data, nil
}

func (s *blobStore) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := s.client.Set(ctx, blobKey(key), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func blobKey(key string) string {
	return "cart:" + key
}
