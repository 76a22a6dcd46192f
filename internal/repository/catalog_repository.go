package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-pricing/internal/db"
	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) port.ProductCatalog {
	return &catalogRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCatalogWithTx(tx pgx.Tx) port.ProductCatalog {
	return &catalogRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

// Resolve treats inactive products as not found.
func (r *catalogRepository) Resolve(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	if productID == uuid.Nil {
		return domain.Product{}, fmt.Errorf("productID is empty")
	}

	row, err := r.q.GetProduct(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	if !row.IsActive {
		return domain.Product{}, fmt.Errorf("product[%s] is inactive: %w", productID, domain.ErrProductNotFound)
	}

	product, err := mapProductRowToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductRowToDomain: %w", err)
	}

	return product, nil
}

// UpsertProducts writes all products in one transaction.
func (r *catalogRepository) UpsertProducts(ctx context.Context, products ...domain.Product) error {
	params := make([]db.UpsertProductParams, 0, len(products))
	for _, p := range products {
		param, err := mapDomainToUpsertParams(p)
		if err != nil {
			return fmt.Errorf("mapDomainToUpsertParams: %w", err)
		}
		params = append(params, param)
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		for _, param := range params {
			if err := q.UpsertProduct(ctx, param); err != nil {
				return struct{}{}, fmt.Errorf("q.UpsertProduct[%s]: %w", param.ID, err)
			}
		}

		return struct{}{}, nil
	})

	return err
}

func mapProductRowToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	price, err := domain.MoneyFromDecimal(row.PriceAmount, parsedCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("domain.MoneyFromDecimal: %w", err)
	}

	product := domain.Product{
		ID:    row.ID,
		Price: price,
	}
	if row.StockQuantity != nil {
		product.StockCeiling = domain.Ceiling(int(*row.StockQuantity))
	}

	return product, nil
}

func mapDomainToUpsertParams(p domain.Product) (db.UpsertProductParams, error) {
	if p.ID == uuid.Nil {
		return db.UpsertProductParams{}, fmt.Errorf("product id is empty")
	}
	if p.Price.Minor < 0 {
		return db.UpsertProductParams{}, fmt.Errorf("product[%s]: %w", p.ID, domain.ErrInvalidAmount)
	}

	params := db.UpsertProductParams{
		ID:            p.ID,
		PriceAmount:   p.Price.Decimal(),
		PriceCurrency: p.Price.Currency.String(),
		IsActive:      true,
	}

	if p.StockCeiling != nil {
		ceiling := *p.StockCeiling
		if ceiling < 0 || ceiling > math.MaxInt32 {
			return db.UpsertProductParams{}, fmt.Errorf("product[%s] stock ceiling[%d] out of range", p.ID, ceiling)
		}
		stock := int32(ceiling)
		params.StockQuantity = &stock
	}

	return params, nil
}
