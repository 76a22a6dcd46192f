package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

const defaultLookupConcurrency = 8

// CartPersistence stores carts as product/quantity snapshots and rebuilds them against the catalog,
// so a stored price is never trusted.
type CartPersistence struct {
	store    port.BlobStore
	currency currency.Unit
	validate *validator.Validate
	limit    int
	log      zerolog.Logger
}

type Option func(*CartPersistence)

// WithLookupConcurrency bounds parallel catalog lookups during Decode.
func WithLookupConcurrency(n int) Option {
	return func(p *CartPersistence) {
		if n > 0 {
			p.limit = n
		}
	}
}

func New(store port.BlobStore, cur currency.Unit, log zerolog.Logger, opts ...Option) *CartPersistence {
	p := &CartPersistence{
		store:    store,
		currency: cur,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		limit:    defaultLookupConcurrency,
		log:      log,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *CartPersistence) Currency() currency.Unit {
	return p.currency
}

func (p *CartPersistence) Encode(cart *domain.Cart) ([]byte, error) {
	blob, err := json.Marshal(cart.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return blob, nil
}

// Decode rebuilds a cart from blob. Records that fail validation or whose product no longer resolves are dropped
// and logged; catalog failures other than not-found abort the load.
func (p *CartPersistence) Decode(ctx context.Context, ownerID string, blob []byte, catalog port.Catalog) (*domain.Cart, error) {
	var records []domain.LineSnapshot
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	log := p.log.With().Str("owner_id", ownerID).Logger()

	valid := make([]domain.LineSnapshot, 0, len(records))
	for _, rec := range records {
		if err := p.validate.Struct(rec); err != nil {
			log.Warn().Err(err).Str("product_id", rec.ProductID.String()).Msg("dropping invalid snapshot record")
			continue
		}
		valid = append(valid, rec)
	}

	products, err := p.resolveAll(ctx, valid, catalog)
	if err != nil {
		return nil, err
	}

	cart := domain.NewCart(ownerID, p.currency)
	for i, rec := range valid {
		product := products[i]
		if product == nil {
			log.Warn().Str("product_id", rec.ProductID.String()).Msg("dropping line: product not found")
			continue
		}

		change, err := cart.Add(*product, rec.Quantity)
		if err != nil {
			log.Warn().Err(err).Str("product_id", rec.ProductID.String()).Msg("dropping line")
			continue
		}
		if change.Signal == domain.StockCeilingReached {
			log.Warn().
				Str("product_id", rec.ProductID.String()).
				Int("stored_quantity", rec.Quantity).
				Int("ceiling", change.Ceiling).
				Msg("clamped line to stock ceiling")
		}
	}

	return cart, nil
}

// resolveAll returns products aligned with records; a nil entry means not found.
func (p *CartPersistence) resolveAll(ctx context.Context, records []domain.LineSnapshot, catalog port.Catalog) ([]*domain.Product, error) {
	products := make([]*domain.Product, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)

	for i, rec := range records {
		g.Go(func() error {
			product, err := catalog.Resolve(gctx, rec.ProductID)
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("catalog.Resolve[%s]: %w", rec.ProductID, err)
			}

			products[i] = &product
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return products, nil
}

func (p *CartPersistence) Save(ctx context.Context, key string, cart *domain.Cart) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	blob, err := p.Encode(cart)
	if err != nil {
		return fmt.Errorf("p.Encode: %w", err)
	}

	if err := p.store.Put(ctx, key, blob); err != nil {
		return fmt.Errorf("store.Put: %w", err)
	}

	return nil
}

// Load returns an empty cart when nothing is stored under key.
func (p *CartPersistence) Load(ctx context.Context, key string, catalog port.Catalog) (*domain.Cart, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	blob, err := p.store.Get(ctx, key)
	if errors.Is(err, domain.ErrBlobMissing) {
		return domain.NewCart(key, p.currency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Get: %w", err)
	}

	cart, err := p.Decode(ctx, key, blob, catalog)
	if err != nil {
		return nil, fmt.Errorf("p.Decode: %w", err)
	}

	return cart, nil
}
