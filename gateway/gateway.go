package gateway

import (
	"context"
	"errors"
)

// Sentinel errors for the outbound gateway call taxonomy. Wrapped errors
// carry the provider's message where one was returned.
var (
	ErrUnreachable = errors.New("payment gateway unreachable")
	ErrTimeout     = errors.New("payment gateway timed out")
	ErrAuth        = errors.New("payment gateway rejected credentials")
	ErrBadRequest  = errors.New("payment gateway rejected request")
	ErrGateway     = errors.New("payment gateway error")
)

// CreateRequest carries everything the gateway needs to open a payment
// request for an order.
type CreateRequest struct {
	OrderID    string
	Amount     int64
	Purpose    string
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
}

// PaymentRequest is the gateway's view of a created payment request.
type PaymentRequest struct {
	ID       string
	LongURL  string
	ShortURL string
}

// Client abstracts the payment provider. Exactly one implementation is
// chosen at startup: Instamojo when credentials are configured, Sandbox
// otherwise.
type Client interface {
	CreatePaymentRequest(ctx context.Context, req CreateRequest) (*PaymentRequest, error)
	// VerifyPayment reports whether the payment has been credited. A clean
	// negative result is (false, nil), not an error.
	VerifyPayment(ctx context.Context, requestID, paymentID string) (bool, error)
}
