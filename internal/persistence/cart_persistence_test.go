package persistence_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/persistence"
	"github.com/nikolayk812/cart-pricing/internal/port"
	"github.com/nikolayk812/cart-pricing/internal/store/memstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

var ngn = currency.MustParseISO("NGN")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := t.Context()
	products := randomProducts(5)
	catalog := memstore.NewCatalog(products...)
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())
	key := gofakeit.UUID()

	cart := domain.NewCart(key, ngn)
	for _, product := range products {
		_, err := cart.Add(product, gofakeit.IntRange(1, 5))
		require.NoError(t, err)
	}

	require.NoError(t, p.Save(ctx, key, cart))

	loaded, err := p.Load(ctx, key, catalog)
	require.NoError(t, err)

	assert.Equal(t, key, loaded.OwnerID)
	assertSnapshot(t, cart.Snapshot(), loaded.Snapshot())
}

func TestLoad_DropsUnresolvable(t *testing.T) {
	ctx := t.Context()
	products := randomProducts(4)
	catalog := memstore.NewCatalog(products[0], products[2])
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())
	key := gofakeit.UUID()

	cart := domain.NewCart(key, ngn)
	for _, product := range products {
		_, err := cart.Add(product, 2)
		require.NoError(t, err)
	}
	require.NoError(t, p.Save(ctx, key, cart))

	loaded, err := p.Load(ctx, key, catalog)
	require.NoError(t, err)

	want := []domain.LineSnapshot{
		{ProductID: products[0].ID, Quantity: 2},
		{ProductID: products[2].ID, Quantity: 2},
	}
	assertSnapshot(t, want, loaded.Snapshot())
}

func TestLoad_UsesCatalogPrice(t *testing.T) {
	ctx := t.Context()
	product := randomProduct(nil)
	catalog := memstore.NewCatalog(product)
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())
	key := gofakeit.UUID()

	cart := domain.NewCart(key, ngn)
	_, err := cart.Add(product, 3)
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, key, cart))

	repriced := product
	repriced.Price.Minor = product.Price.Minor + 700
	require.NoError(t, catalog.UpsertProducts(ctx, repriced))

	loaded, err := p.Load(ctx, key, catalog)
	require.NoError(t, err)

	line, ok := loaded.Line(product.ID)
	require.True(t, ok)
	assert.Equal(t, repriced.Price, line.UnitPrice)
}

func TestDecode(t *testing.T) {
	product := randomProduct(domain.Ceiling(3))
	outOfStock := randomProduct(domain.Ceiling(0))
	dollars := domain.Product{ID: uuid.New(), Price: domain.Money{Minor: 100, Currency: currency.USD}}
	pricey := domain.Product{ID: uuid.New(), Price: domain.Money{Minor: 100000, Currency: ngn}}
	catalog := memstore.NewCatalog(product, outOfStock, dollars, pricey)

	tests := []struct {
		name      string
		blob      string
		want      []domain.LineSnapshot
		wantError string
	}{
		{
			name: "empty array: ok",
			blob: `[]`,
			want: []domain.LineSnapshot{},
		},
		{
			name: "quantity above current ceiling is clamped: ok",
			blob: `[{"productId":"` + product.ID.String() + `","quantity":9}]`,
			want: []domain.LineSnapshot{{ProductID: product.ID, Quantity: 3}},
		},
		{
			name: "duplicate records merge: ok",
			blob: `[{"productId":"` + product.ID.String() + `","quantity":1},{"productId":"` + product.ID.String() + `","quantity":1}]`,
			want: []domain.LineSnapshot{{ProductID: product.ID, Quantity: 2}},
		},
		{
			name: "tampered records are dropped: ok",
			blob: `[{"productId":"` + product.ID.String() + `","quantity":-4},{"productId":"00000000-0000-0000-0000-000000000000","quantity":1},{"productId":"` + product.ID.String() + `","quantity":1,"unitPrice":1}]`,
			want: []domain.LineSnapshot{{ProductID: product.ID, Quantity: 1}},
		},
		{
			name: "out of stock line is dropped: ok",
			blob: `[{"productId":"` + outOfStock.ID.String() + `","quantity":1}]`,
			want: []domain.LineSnapshot{},
		},
		{
			name: "foreign currency line is dropped: ok",
			blob: `[{"productId":"` + dollars.ID.String() + `","quantity":1}]`,
			want: []domain.LineSnapshot{},
		},
		{
			name: "line total overflow is dropped: ok",
			blob: `[{"productId":"` + pricey.ID.String() + `","quantity":184467440737095}]`,
			want: []domain.LineSnapshot{},
		},
		{
			name: "quantity sum overflow keeps first record: ok",
			blob: `[{"productId":"` + pricey.ID.String() + `","quantity":2},{"productId":"` + pricey.ID.String() + `","quantity":9223372036854775807}]`,
			want: []domain.LineSnapshot{{ProductID: pricey.ID, Quantity: 2}},
		},
		{
			name:      "malformed json: error",
			blob:      `{"productId":`,
			wantError: "json.Unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())

			cart, err := p.Decode(t.Context(), "owner", []byte(tt.blob), catalog)
			if tt.wantError != "" {
				require.ErrorContains(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assertSnapshot(t, tt.want, cart.Snapshot())
		})
	}
}

func TestDecode_LogsDroppedLines(t *testing.T) {
	var buf bytes.Buffer
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.New(&buf))
	missing := uuid.New()

	cart, err := p.Decode(t.Context(), "owner", []byte(`[{"productId":"`+missing.String()+`","quantity":1}]`), memstore.NewCatalog())
	require.NoError(t, err)

	assert.True(t, cart.IsEmpty())
	assert.Contains(t, buf.String(), "product not found")
	assert.Contains(t, buf.String(), missing.String())
}

func TestDecode_CatalogFailure(t *testing.T) {
	boom := errors.New("catalog unavailable")
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop(), persistence.WithLookupConcurrency(2))

	blob := []byte(`[{"productId":"` + uuid.NewString() + `","quantity":1},{"productId":"` + uuid.NewString() + `","quantity":1}]`)

	_, err := p.Decode(t.Context(), "owner", blob, failingCatalog{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestLoad_MissingBlob(t *testing.T) {
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())

	cart, err := p.Load(t.Context(), "fresh-session", memstore.NewCatalog())
	require.NoError(t, err)

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "fresh-session", cart.OwnerID)
	assert.Equal(t, ngn, cart.Currency)
}

func TestSaveLoad_EmptyKey(t *testing.T) {
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())

	require.EqualError(t, p.Save(t.Context(), "", domain.NewCart("", ngn)), "key is empty")

	_, err := p.Load(t.Context(), "", memstore.NewCatalog())
	require.EqualError(t, err, "key is empty")
}

func TestEncode_OmitsPrices(t *testing.T) {
	p := persistence.New(memstore.NewBlobStore(), ngn, zerolog.Nop())
	product := randomProduct(nil)
	cart := domain.NewCart("owner", ngn)
	_, err := cart.Add(product, 2)
	require.NoError(t, err)

	blob, err := p.Encode(cart)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"productId":"`+product.ID.String()+`","quantity":2}]`, string(blob))
}

type failingCatalog struct {
	err error
}

var _ port.Catalog = failingCatalog{}

func (c failingCatalog) Resolve(context.Context, uuid.UUID) (domain.Product, error) {
	return domain.Product{}, c.err
}

func assertSnapshot(t *testing.T, expected, actual []domain.LineSnapshot) {
	t.Helper()

	diff := cmp.Diff(expected, actual, cmpopts.EquateEmpty())
	assert.Empty(t, diff)
}

func randomProducts(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for range n {
		products = append(products, randomProduct(nil))
	}

	return products
}

func randomProduct(ceiling *int) domain.Product {
	return domain.Product{
		ID:           uuid.MustParse(gofakeit.UUID()),
		Price:        domain.Money{Minor: int64(gofakeit.IntRange(1, 100_000)), Currency: ngn},
		StockCeiling: ceiling,
	}
}
