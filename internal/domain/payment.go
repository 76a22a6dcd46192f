package domain

import "fmt"

type PaymentStatus int

const (
	PaymentSucceeded PaymentStatus = iota + 1
	PaymentCancelled
)

// PaymentRequest is handed to the payment provider; Amount is the cart total.
type PaymentRequest struct {
	Amount    Money
	Reference string
}

type PaymentResult struct {
	Reference string
	Status    PaymentStatus
}

func NewPaymentRequest(summary Summary, reference string) (PaymentRequest, error) {
	if summary.ItemCount == 0 {
		return PaymentRequest{}, ErrEmptyCart
	}
	if reference == "" {
		return PaymentRequest{}, fmt.Errorf("reference is empty")
	}

	return PaymentRequest{
		Amount:    summary.Total,
		Reference: reference,
	}, nil
}
