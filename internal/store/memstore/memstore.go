package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/port"
)

type blobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() port.BlobStore {
	return &blobStore{blobs: make(map[string][]byte)}
}

func (s *blobStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("key[%s]: %w", key, domain.ErrBlobMissing)
	}

	return slices.Clone(blob), nil
}

func (s *blobStore) Put(_ context.Context, key string, blob []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = slices.Clone(blob)
	return nil
}

type catalog struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
}

func NewCatalog(products ...domain.Product) port.ProductCatalog {
	c := &catalog{products: make(map[uuid.UUID]domain.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = cloneProduct(p)
	}

	return c
}

func (c *catalog) Resolve(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}

	return cloneProduct(p), nil
}

func (c *catalog) UpsertProducts(_ context.Context, products ...domain.Product) error {
	for _, p := range products {
		if p.ID == uuid.Nil {
			return fmt.Errorf("product id is empty")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		c.products[p.ID] = cloneProduct(p)
	}

	return nil
}

func cloneProduct(p domain.Product) domain.Product {
	if p.StockCeiling != nil {
		p.StockCeiling = domain.Ceiling(*p.StockCeiling)
	}

	return p
}
