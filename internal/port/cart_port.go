package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-pricing/internal/domain"
)

// Catalog resolves current price and stock ceiling. Unknown or inactive products yield domain.ErrProductNotFound.
type Catalog interface {
	Resolve(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}

type ProductCatalog interface {
	Catalog
	UpsertProducts(ctx context.Context, products ...domain.Product) error
}

// BlobStore is an opaque key-value store. Get yields domain.ErrBlobMissing for unknown keys;
// Put overwrites, so the last write for a key wins.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
}

type PaymentProvider interface {
	Pay(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)
}
