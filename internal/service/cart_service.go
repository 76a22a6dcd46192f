package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-pricing/internal/domain"
	"github.com/nikolayk812/cart-pricing/internal/persistence"
	"github.com/nikolayk812/cart-pricing/internal/port"
	"github.com/nikolayk812/cart-pricing/internal/promo"
	"github.com/rs/zerolog"
)

// CartService opens per-session carts and runs mutate, recompute and persist for each change.
type CartService struct {
	catalog     port.Catalog
	persistence *persistence.CartPersistence
	promos      *promo.Registry
	payments    port.PaymentProvider
	newRef      func() string
	log         zerolog.Logger
}

func New(
	catalog port.Catalog,
	persist *persistence.CartPersistence,
	promos *promo.Registry,
	payments port.PaymentProvider,
	log zerolog.Logger,
) *CartService {
	return &CartService{
		catalog:     catalog,
		persistence: persist,
		promos:      promos,
		payments:    payments,
		newRef:      newReference,
		log:         log,
	}
}

// Open loads the cart stored under key. A Session must not be shared between goroutines.
func (s *CartService) Open(ctx context.Context, key string) (*Session, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	cart, err := s.persistence.Load(ctx, key, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("persistence.Load: %w", err)
	}

	return &Session{
		key:  key,
		cart: cart,
		svc:  s,
		log:  s.log.With().Str("session", key).Logger(),
	}, nil
}

type Session struct {
	key  string
	cart *domain.Cart
	svc  *CartService
	log  zerolog.Logger
}

func (ss *Session) Key() string {
	return ss.key
}

func (ss *Session) Lines() []domain.CartLine {
	return ss.cart.Lines()
}

// Summary recomputes the cart. A negative total is an invariant violation and is logged.
func (ss *Session) Summary() (domain.Summary, error) {
	summary, err := ss.cart.Summary()
	if errors.Is(err, domain.ErrNegativeTotal) {
		ss.log.Error().Err(err).Msg("cart total invariant violated")
	}
	if err != nil {
		return domain.Summary{}, fmt.Errorf("cart.Summary: %w", err)
	}

	return summary, nil
}

// AddItem resolves the product's current price and ceiling, then adds quantity units.
func (ss *Session) AddItem(ctx context.Context, productID uuid.UUID, quantity int) (domain.QuantityChange, error) {
	product, err := ss.svc.catalog.Resolve(ctx, productID)
	if err != nil {
		return domain.QuantityChange{}, fmt.Errorf("catalog.Resolve: %w", err)
	}

	change, err := ss.cart.Add(product, quantity)
	if err != nil {
		return domain.QuantityChange{}, fmt.Errorf("cart.Add: %w", err)
	}
	ss.logChange(change)

	if err := ss.save(ctx); err != nil {
		return change, err
	}

	return change, nil
}

// SetQuantity edits a line. RemovalRequested changes nothing and is not persisted; the caller confirms
// by calling RemoveItem.
func (ss *Session) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (domain.QuantityChange, error) {
	change, err := ss.cart.SetQuantity(productID, quantity)
	if err != nil {
		return domain.QuantityChange{}, fmt.Errorf("cart.SetQuantity: %w", err)
	}
	ss.logChange(change)

	if change.Signal == domain.RemovalRequested {
		return change, nil
	}

	if err := ss.save(ctx); err != nil {
		return change, err
	}

	return change, nil
}

func (ss *Session) RemoveItem(ctx context.Context, productID uuid.UUID) (bool, error) {
	if !ss.cart.Remove(productID) {
		return false, nil
	}

	if err := ss.save(ctx); err != nil {
		return true, err
	}

	return true, nil
}

// ApplyPromo activates code for the rest of the session and returns the discounted summary.
func (ss *Session) ApplyPromo(code string) (domain.Summary, error) {
	if _, err := ss.svc.promos.Apply(ss.cart, code); err != nil {
		return domain.Summary{}, fmt.Errorf("promos.Apply: %w", err)
	}

	return ss.Summary()
}

// Checkout re-resolves every line, then charges the refreshed total. On success the cart is cleared and
// persisted; a cancelled payment leaves it as is. A line whose stock dropped fails the checkout without
// charging: ErrOutOfStock when nothing is left, ErrStockChanged when the line was clamped.
func (ss *Session) Checkout(ctx context.Context) (domain.PaymentResult, error) {
	if ss.svc.payments == nil {
		return domain.PaymentResult{}, fmt.Errorf("payment provider is not configured")
	}

	if err := ss.refresh(ctx); err != nil {
		return domain.PaymentResult{}, err
	}

	summary, err := ss.Summary()
	if err != nil {
		return domain.PaymentResult{}, err
	}

	req, err := domain.NewPaymentRequest(summary, ss.svc.newRef())
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("domain.NewPaymentRequest: %w", err)
	}

	log := ss.log.With().Str("reference", req.Reference).Logger()

	result, err := ss.svc.payments.Pay(ctx, req)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("payments.Pay: %w", err)
	}

	if result.Status != domain.PaymentSucceeded {
		log.Info().Msg("payment cancelled")
		return result, fmt.Errorf("reference[%s]: %w", req.Reference, domain.ErrPaymentCancelled)
	}

	log.Info().
		Int64("amount_minor", req.Amount.Minor).
		Str("currency", req.Amount.Currency.String()).
		Msg("payment succeeded")

	ss.cart.Clear()
	if err := ss.save(ctx); err != nil {
		return result, err
	}

	return result, nil
}

// refresh takes current prices and ceilings for all lines. Refreshed lines are persisted when any
// line was clamped or ran out of stock so the caller sees the same cart on reopen.
func (ss *Session) refresh(ctx context.Context) error {
	lines := ss.cart.Lines()

	products := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		product, err := ss.svc.catalog.Resolve(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("catalog.Resolve: %w", err)
		}
		products = append(products, product)
	}

	var outOfStock, clamped []error
	for _, product := range products {
		change, err := ss.cart.Reprice(product)
		switch {
		case errors.Is(err, domain.ErrOutOfStock):
			outOfStock = append(outOfStock, err)
		case err != nil:
			return fmt.Errorf("cart.Reprice: %w", err)
		case change.Signal == domain.StockCeilingReached:
			ss.logChange(change)
			clamped = append(clamped, fmt.Errorf("product[%s] clamped to %d: %w", change.ProductID, change.Quantity, domain.ErrStockChanged))
		}
	}

	if len(outOfStock) == 0 && len(clamped) == 0 {
		return nil
	}

	if err := ss.save(ctx); err != nil {
		return err
	}

	if len(outOfStock) > 0 {
		return fmt.Errorf("cart.Reprice: %w", errors.Join(append(outOfStock, clamped...)...))
	}

	return fmt.Errorf("cart.Reprice: %w", errors.Join(clamped...))
}

func (ss *Session) save(ctx context.Context) error {
	if err := ss.svc.persistence.Save(ctx, ss.key, ss.cart); err != nil {
		return fmt.Errorf("persistence.Save: %w", err)
	}

	return nil
}

func (ss *Session) logChange(change domain.QuantityChange) {
	if change.Signal == domain.QuantityAccepted {
		return
	}

	ss.log.Debug().
		Str("product_id", change.ProductID.String()).
		Stringer("signal", change.Signal).
		Int("quantity", change.Quantity).
		Msg("quantity change signalled")
}

func newReference() string {
	return "ORD-" + uuid.NewString()
}
