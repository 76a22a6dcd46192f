package domain

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type QuantitySignal int

const (
	QuantityAccepted QuantitySignal = iota
	// StockCeilingReached means the quantity was clamped to the line's ceiling.
	StockCeilingReached
	// RemovalRequested means the quantity was left unchanged and the caller should confirm removal.
	RemovalRequested
)

func (s QuantitySignal) String() string {
	switch s {
	case QuantityAccepted:
		return "accepted"
	case StockCeilingReached:
		return "stock_ceiling_reached"
	case RemovalRequested:
		return "removal_requested"
	default:
		return fmt.Sprintf("QuantitySignal(%d)", int(s))
	}
}

// QuantityChange reports the outcome of a quantity edit.
type QuantityChange struct {
	ProductID uuid.UUID
	Quantity  int
	Signal    QuantitySignal
	Ceiling   int
}

type CartLine struct {
	ProductID    uuid.UUID
	UnitPrice    Money
	Quantity     int
	StockCeiling *int
}

// SetQuantity applies the clamp-and-signal policy. A ceiling of zero leaves nothing purchasable,
// so it is reported as a removal request.
func (l *CartLine) SetQuantity(quantity int) QuantityChange {
	change := QuantityChange{ProductID: l.ProductID, Quantity: l.Quantity}

	switch {
	case quantity <= 0:
		change.Signal = RemovalRequested
	case l.StockCeiling != nil && *l.StockCeiling == 0:
		change.Signal = RemovalRequested
	case l.StockCeiling != nil && quantity > *l.StockCeiling:
		l.Quantity = *l.StockCeiling
		change.Quantity = l.Quantity
		change.Signal = StockCeilingReached
		change.Ceiling = *l.StockCeiling
	default:
		l.Quantity = quantity
		change.Quantity = quantity
		change.Signal = QuantityAccepted
	}

	return change
}

func (l CartLine) LineTotal() (Money, error) {
	return l.UnitPrice.MultiplyByQuantity(l.Quantity)
}

func (l CartLine) clone() CartLine {
	l.StockCeiling = cloneCeiling(l.StockCeiling)
	return l
}

// Cart keeps lines in insertion order, unique by product.
// It is owned by a single session and is not safe for concurrent use.
type Cart struct {
	OwnerID  string
	Currency currency.Unit

	lines []CartLine
	promo *PromoCode
}

func NewCart(ownerID string, cur currency.Unit) *Cart {
	return &Cart{
		OwnerID:  ownerID,
		Currency: cur,
	}
}

// Lines returns a copy of the cart lines in display order.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, line.clone())
	}

	return lines
}

func (c *Cart) Line(productID uuid.UUID) (CartLine, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return CartLine{}, false
	}

	return c.lines[i].clone(), true
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Add puts quantity units of product into the cart. An existing line is incremented and takes the
// product's current price and ceiling. The cart is untouched when an error is returned.
func (c *Cart) Add(product Product, quantity int) (QuantityChange, error) {
	if product.ID == uuid.Nil {
		return QuantityChange{}, fmt.Errorf("%w: product id is empty", ErrInvalidProduct)
	}
	if quantity <= 0 {
		return QuantityChange{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if product.Price.Minor < 0 {
		return QuantityChange{}, fmt.Errorf("%w: %d", ErrInvalidAmount, product.Price.Minor)
	}
	if product.Price.Currency != c.Currency {
		return QuantityChange{}, fmt.Errorf("%w: cart is %s, product is %s", ErrCurrencyMismatch, c.Currency, product.Price.Currency)
	}
	if product.StockCeiling != nil && *product.StockCeiling < 0 {
		return QuantityChange{}, fmt.Errorf("%w: negative stock ceiling", ErrInvalidProduct)
	}

	line := CartLine{
		ProductID:    product.ID,
		UnitPrice:    product.Price,
		StockCeiling: cloneCeiling(product.StockCeiling),
	}

	i := c.indexOf(product.ID)
	target := quantity
	if i >= 0 {
		if c.lines[i].Quantity > math.MaxInt-quantity {
			return QuantityChange{}, fmt.Errorf("%w: %d + %d overflows", ErrInvalidQuantity, c.lines[i].Quantity, quantity)
		}
		target += c.lines[i].Quantity
	}

	change := line.SetQuantity(target)
	if change.Signal == RemovalRequested {
		return QuantityChange{}, fmt.Errorf("%w: %s", ErrOutOfStock, product.ID)
	}
	if err := c.checkTotals(i, line); err != nil {
		return QuantityChange{}, err
	}

	if i >= 0 {
		c.lines[i] = line
	} else {
		c.lines = append(c.lines, line)
	}

	return change, nil
}

// SetQuantity edits an existing line. A RemovalRequested outcome leaves the line in place.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) (QuantityChange, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return QuantityChange{}, fmt.Errorf("%w: %s", ErrLineNotFound, productID)
	}

	line := c.lines[i].clone()
	change := line.SetQuantity(quantity)
	if change.Signal == RemovalRequested {
		return change, nil
	}
	if err := c.checkTotals(i, line); err != nil {
		return QuantityChange{}, err
	}

	c.lines[i] = line
	return change, nil
}

// Reprice replaces a line's price and ceiling with the product's current ones and re-applies the ceiling.
// A ceiling of zero fails with ErrOutOfStock and leaves the line untouched.
func (c *Cart) Reprice(product Product) (QuantityChange, error) {
	i := c.indexOf(product.ID)
	if i < 0 {
		return QuantityChange{}, fmt.Errorf("%w: %s", ErrLineNotFound, product.ID)
	}
	if product.Price.Minor < 0 {
		return QuantityChange{}, fmt.Errorf("%w: %d", ErrInvalidAmount, product.Price.Minor)
	}
	if product.Price.Currency != c.Currency {
		return QuantityChange{}, fmt.Errorf("%w: cart is %s, product is %s", ErrCurrencyMismatch, c.Currency, product.Price.Currency)
	}
	if product.StockCeiling != nil && *product.StockCeiling < 0 {
		return QuantityChange{}, fmt.Errorf("%w: negative stock ceiling", ErrInvalidProduct)
	}

	line := CartLine{
		ProductID:    product.ID,
		UnitPrice:    product.Price,
		StockCeiling: cloneCeiling(product.StockCeiling),
	}

	change := line.SetQuantity(c.lines[i].Quantity)
	if change.Signal == RemovalRequested {
		return QuantityChange{}, fmt.Errorf("%w: %s", ErrOutOfStock, product.ID)
	}
	if err := c.checkTotals(i, line); err != nil {
		return QuantityChange{}, err
	}

	c.lines[i] = line
	return change, nil
}

func (c *Cart) Remove(productID uuid.UUID) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}

	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

// Clear drops every line and the applied promo.
func (c *Cart) Clear() {
	c.lines = nil
	c.promo = nil
}

func (c *Cart) Promo() *PromoCode {
	if c.promo == nil {
		return nil
	}

	p := *c.promo
	return &p
}

// ApplyPromo activates promo on the cart. At most one promo can be active.
func (c *Cart) ApplyPromo(promo PromoCode) error {
	if c.promo != nil {
		return fmt.Errorf("%w: %s", ErrPromoAlreadyApplied, c.promo.Code)
	}
	if err := validateRate(promo.Rate); err != nil {
		return err
	}

	c.promo = &promo
	return nil
}

// Summary recomputes the cart aggregates with the applied promo.
func (c *Cart) Summary() (Summary, error) {
	return Recompute(c, c.promo)
}

// checkTotals reports ErrInvalidQuantity when the cart with line in place of index i
// (appended when i < 0) would overflow its subtotal or item count.
func (c *Cart) checkTotals(i int, line CartLine) error {
	subtotal := Zero(c.Currency)
	count := 0

	add := func(l CartLine) error {
		total, err := l.LineTotal()
		if err != nil {
			return err
		}
		if subtotal, err = subtotal.Add(total); err != nil {
			return err
		}
		if count > math.MaxInt-l.Quantity {
			return fmt.Errorf("item count overflows")
		}
		count += l.Quantity
		return nil
	}

	for j, l := range c.lines {
		if j == i {
			continue
		}
		if err := add(l); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
		}
	}
	if err := add(line); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuantity, err)
	}

	return nil
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool {
		return l.ProductID == productID
	})
}
