package domain

import "github.com/google/uuid"

// Product is what the catalog knows about a purchasable item at the time of lookup.
type Product struct {
	ID    uuid.UUID
	Price Money
	// StockCeiling is nil when stock is unlimited.
	StockCeiling *int
}

// Ceiling returns a stock ceiling pointer for n.
func Ceiling(n int) *int {
	return &n
}

func cloneCeiling(c *int) *int {
	if c == nil {
		return nil
	}

	return Ceiling(*c)
}
