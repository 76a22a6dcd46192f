package domain

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidProduct      = errors.New("invalid product")
	ErrInvalidRate         = errors.New("invalid discount rate")
	ErrInvalidPromoCode    = errors.New("invalid promo code")
	ErrPromoAlreadyApplied = errors.New("promo code already applied")
	ErrNegativeTotal       = errors.New("negative total")
	ErrProductNotFound     = errors.New("product not found")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrOutOfStock          = errors.New("product out of stock")
	ErrStockChanged        = errors.New("stock changed")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrBlobMissing         = errors.New("blob missing")
	ErrPaymentCancelled    = errors.New("payment cancelled")
)
