package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-pricing/internal/db"
	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/port"
)

type snapshotRepository struct {
	q *db.Queries
}

func NewSnapshotStore(pool *pgxpool.Pool) port.BlobStore {
	return &snapshotRepository{
		q: db.New(pool),
	}
}

func NewSnapshotStoreWithTx(tx pgx.Tx) port.BlobStore {
	return &snapshotRepository{
		q: db.New(tx),
	}
}

func (r *snapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	blob, err := r.q.GetCartSnapshot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("key[%s]: %w", key, domain.ErrBlobMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetCartSnapshot: %w", err)
	}

	return blob, nil
}

// Put upserts, so the last write for a key wins.
func (r *snapshotRepository) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := r.q.PutCartSnapshot(ctx, db.PutCartSnapshotParams{
		OwnerKey: key,
		Blob:     blob,
	})
	if err != nil {
		return fmt.Errorf("q.PutCartSnapshot: %w", err)
	}

	return nil
}
