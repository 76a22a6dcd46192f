package domain

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in minor units of its currency (kobo for NGN, cents for USD).
type Money struct {
	Minor    int64
	Currency currency.Unit
}

func NewMoney(minor int64, cur currency.Unit) (Money, error) {
	if minor < 0 {
		return Money{}, fmt.Errorf("%w: %d", ErrInvalidAmount, minor)
	}

	return Money{Minor: minor, Currency: cur}, nil
}

// MoneyFromDecimal converts a major-unit amount, rounding half-to-even at the currency's minor-unit scale.
func MoneyFromDecimal(amount decimal.Decimal, cur currency.Unit) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	minor := amount.Shift(int32(minorScale(cur))).RoundBank(0).IntPart()

	return Money{Minor: minor, Currency: cur}, nil
}

func Zero(cur currency.Unit) Money {
	return Money{Currency: cur}
}

func (m Money) IsZero() bool {
	return m.Minor == 0
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Minor, -int32(minorScale(m.Currency)))
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	if other.Minor > 0 && m.Minor > math.MaxInt64-other.Minor {
		return Money{}, fmt.Errorf("%w: %d + %d overflows", ErrInvalidAmount, m.Minor, other.Minor)
	}

	return Money{Minor: m.Minor + other.Minor, Currency: m.Currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}

	return NewMoney(m.Minor-other.Minor, m.Currency)
}

// MultiplyByQuantity fails with ErrInvalidAmount when the product does not fit in int64.
func (m Money) MultiplyByQuantity(quantity int) (Money, error) {
	if m.Minor < 0 {
		return Money{}, fmt.Errorf("%w: %d", ErrInvalidAmount, m.Minor)
	}
	if quantity < 0 {
		return Money{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	hi, lo := bits.Mul64(uint64(m.Minor), uint64(quantity))
	if hi != 0 || lo > math.MaxInt64 {
		return Money{}, fmt.Errorf("%w: %d x %d overflows", ErrInvalidAmount, m.Minor, quantity)
	}

	return Money{Minor: int64(lo), Currency: m.Currency}, nil
}

// MultiplyByRate rounds half-to-even at minor-unit resolution.
func (m Money) MultiplyByRate(rate decimal.Decimal) Money {
	minor := decimal.NewFromInt(m.Minor).Mul(rate).RoundBank(0).IntPart()

	return Money{Minor: minor, Currency: m.Currency}
}

// Format renders the amount for display in the given locale, e.g. "₦ 2,500.00" for en-NG.
// The x/text currency formatter takes a float64; amounts a float64 cannot hold exactly are
// rendered from the integer parts with a "." decimal separator instead.
func (m Money) Format(tag language.Tag) string {
	p := message.NewPrinter(tag)
	amount := m.Decimal()

	f := amount.InexactFloat64()
	if decimal.NewFromFloat(f).Equal(amount) {
		return p.Sprint(currency.Symbol(m.Currency.Amount(f)))
	}

	return m.formatExact(p)
}

func (m Money) formatExact(p *message.Printer) string {
	scale := minorScale(m.Currency)

	minor := uint64(m.Minor)
	sign := ""
	if m.Minor < 0 {
		minor = -minor
		sign = "-"
	}

	unit := uint64(1)
	for range scale {
		unit *= 10
	}

	var b strings.Builder
	b.WriteString(p.Sprint(currency.Symbol(m.Currency)))
	b.WriteString(" ")
	b.WriteString(sign)
	b.WriteString(p.Sprintf("%d", minor/unit))
	if scale > 0 {
		b.WriteString(fmt.Sprintf(".%0*d", scale, minor%unit))
	}

	return b.String()
}

func (m Money) String() string {
	return m.Decimal().StringFixed(int32(minorScale(m.Currency))) + " " + m.Currency.String()
}

func minorScale(cur currency.Unit) int {
	scale, _ := currency.Standard.Rounding(cur)
	return scale
}
