package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type PromoCode struct {
	Code        string
	Rate        decimal.Decimal
	Description string
}

func NewPromoCode(code string, rate decimal.Decimal, description string) (PromoCode, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return PromoCode{}, fmt.Errorf("%w: code is empty", ErrInvalidPromoCode)
	}
	if err := validateRate(rate); err != nil {
		return PromoCode{}, err
	}

	return PromoCode{
		Code:        normalized,
		Rate:        rate,
		Description: description,
	}, nil
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

var one = decimal.NewFromInt(1)

// rate must be in [0, 1)
func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}

	return nil
}
