package domain

import "github.com/google/uuid"

// LineSnapshot is the persisted form of a cart line. Prices are never persisted.
type LineSnapshot struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

func (c *Cart) Snapshot() []LineSnapshot {
	snapshot := make([]LineSnapshot, 0, len(c.lines))
	for _, line := range c.lines {
		snapshot = append(snapshot, LineSnapshot{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	return snapshot
}
