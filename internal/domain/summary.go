package domain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

type LineSummary struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice Money
	Total     Money
}

// Summary is derived from a cart and is never stored.
type Summary struct {
	Lines     []LineSummary
	Subtotal  Money
	ItemCount int
	Discount  Money
	Total     Money
	Promo     *PromoCode
}

// Recompute derives the summary from the canonical line values. It reads nothing but cart lines and promo,
// so repeated calls over unchanged inputs return identical results.
func Recompute(cart *Cart, promo *PromoCode) (Summary, error) {
	summary := Summary{
		Lines:    make([]LineSummary, 0, len(cart.lines)),
		Subtotal: Zero(cart.Currency),
		Discount: Zero(cart.Currency),
	}

	for _, line := range cart.lines {
		lineTotal, err := line.LineTotal()
		if err != nil {
			return Summary{}, fmt.Errorf("line %s: %w", line.ProductID, err)
		}

		subtotal, err := summary.Subtotal.Add(lineTotal)
		if err != nil {
			return Summary{}, fmt.Errorf("line %s: %w", line.ProductID, err)
		}

		summary.Subtotal = subtotal
		if summary.ItemCount > math.MaxInt-line.Quantity {
			return Summary{}, fmt.Errorf("%w: item count overflows", ErrInvalidQuantity)
		}
		summary.ItemCount += line.Quantity
		summary.Lines = append(summary.Lines, LineSummary{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     lineTotal,
		})
	}

	if promo != nil {
		if err := validateRate(promo.Rate); err != nil {
			return Summary{}, err
		}

		p := *promo
		summary.Promo = &p
		summary.Discount = summary.Subtotal.MultiplyByRate(promo.Rate)
	}

	total, err := summary.Subtotal.Subtract(summary.Discount)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: subtotal %s, discount %s: %w", ErrNegativeTotal, summary.Subtotal, summary.Discount, err)
	}
	summary.Total = total

	return summary, nil
}
