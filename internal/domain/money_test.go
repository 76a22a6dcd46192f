package domain_test

import (
	"math"
	"testing"

	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name      string
		minor     int64
		wantError error
	}{
		{name: "positive amount: ok", minor: 1000},
		{name: "zero amount: ok", minor: 0},
		{name: "negative amount: error", minor: -1, wantError: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := domain.NewMoney(tt.minor, ngn)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.minor, m.Minor)
			assert.Equal(t, ngn, m.Currency)
		})
	}
}

func TestMoneyFromDecimal(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		cur       currency.Unit
		wantMinor int64
		wantError error
	}{
		{name: "two decimals: ok", amount: "12.34", cur: currency.USD, wantMinor: 1234},
		{name: "half rounds to even down: ok", amount: "0.125", cur: currency.USD, wantMinor: 12},
		{name: "half rounds to even up: ok", amount: "0.135", cur: currency.USD, wantMinor: 14},
		{name: "zero scale currency: ok", amount: "1500", cur: currency.JPY, wantMinor: 1500},
		{name: "negative: error", amount: "-0.01", cur: currency.USD, wantError: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := domain.MoneyFromDecimal(decimal.RequireFromString(tt.amount), tt.cur)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantMinor, m.Minor)
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := domain.Money{Minor: 1000, Currency: ngn}
	b := domain.Money{Minor: 250, Currency: ngn}

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), sum.Minor)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), diff.Minor)

	_, err = b.Subtract(a)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = a.Add(domain.Money{Minor: 1, Currency: currency.USD})
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	product, err := a.MultiplyByQuantity(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), product.Minor)

	product, err = a.MultiplyByQuantity(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), product.Minor)
}

func TestMoneyArithmetic_Overflow(t *testing.T) {
	price := domain.Money{Minor: 100000, Currency: ngn}

	_, err := price.MultiplyByQuantity(math.MaxInt64 / 50000)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = price.MultiplyByQuantity(math.MaxInt)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = price.MultiplyByQuantity(-1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	largest, err := domain.Money{Minor: 1, Currency: ngn}.MultiplyByQuantity(math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), largest.Minor)

	_, err = largest.Add(domain.Money{Minor: 1, Currency: ngn})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestMoneyMultiplyByRate(t *testing.T) {
	tests := []struct {
		name  string
		minor int64
		rate  string
		want  int64
	}{
		{name: "ten percent", minor: 2500, rate: "0.10", want: 250},
		{name: "half to even rounds down", minor: 25, rate: "0.10", want: 2},
		{name: "half to even rounds up", minor: 35, rate: "0.10", want: 4},
		{name: "zero rate", minor: 999, rate: "0", want: 0},
		{name: "fractional result", minor: 333, rate: "0.15", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.Money{Minor: tt.minor, Currency: ngn}
			got := m.MultiplyByRate(decimal.RequireFromString(tt.rate))

			assert.Equal(t, tt.want, got.Minor)
			assert.Equal(t, ngn, got.Currency)
		})
	}
}

func TestMoneyFormat(t *testing.T) {
	m := domain.Money{Minor: 250000, Currency: ngn}

	assert.Equal(t, "2500", m.Decimal().String())
	assert.Equal(t, "2500.00 NGN", m.String())

	assert.Equal(t, "₦ 2,500.00", m.Format(language.MustParse("en-NG")))
}

func TestMoneyFormat_BeyondFloatPrecision(t *testing.T) {
	m := domain.Money{Minor: 900719925474099301, Currency: ngn}

	assert.Equal(t, "₦ 9,007,199,254,740,993.01", m.Format(language.MustParse("en-NG")))
}

var ngn = currency.MustParseISO("NGN")
