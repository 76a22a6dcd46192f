package promo

import (
	"fmt"

	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/shopspring/decimal"
)

// Registry is a fixed table of promo codes keyed by normalized code. It is read-only after construction.
type Registry struct {
	codes map[string]domain.PromoCode
}

func NewRegistry(codes ...domain.PromoCode) (*Registry, error) {
	r := &Registry{codes: make(map[string]domain.PromoCode, len(codes))}

	for _, code := range codes {
		normalized, err := domain.NewPromoCode(code.Code, code.Rate, code.Description)
		if err != nil {
			return nil, fmt.Errorf("domain.NewPromoCode[%s]: %w", code.Code, err)
		}
		if _, ok := r.codes[normalized.Code]; ok {
			return nil, fmt.Errorf("duplicate promo code[%s]", normalized.Code)
		}

		r.codes[normalized.Code] = normalized
	}

	return r, nil
}

// Default returns the storefront's promo table.
func Default() *Registry {
	r, err := NewRegistry(
		domain.PromoCode{Code: "SAVE10", Rate: decimal.RequireFromString("0.10"), Description: "10% discount applied!"},
		domain.PromoCode{Code: "NEWCUSTOMER", Rate: decimal.RequireFromString("0.15"), Description: "15% new customer discount applied!"},
		domain.PromoCode{Code: "PAINT20", Rate: decimal.RequireFromString("0.20"), Description: "20% paint special discount applied!"},
	)
	if err != nil {
		panic(err)
	}

	return r
}

// Lookup reports whether code is known. An unknown code is not an error.
func (r *Registry) Lookup(code string) (domain.PromoCode, bool) {
	promo, ok := r.codes[domain.NormalizeCode(code)]
	return promo, ok
}

// Apply activates code on cart and returns its discount rate. The cart is unchanged on error.
func (r *Registry) Apply(cart *domain.Cart, code string) (decimal.Decimal, error) {
	promo, ok := r.Lookup(code)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPromoCode, code)
	}

	if err := cart.ApplyPromo(promo); err != nil {
		return decimal.Zero, err
	}

	return promo.Rate, nil
}

func (r *Registry) Len() int {
	return len(r.codes)
}
