package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
)

// Customer is the buyer snapshot captured when the order is created.
type Customer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	PackageType string `json:"packageType"`
}

// Order tracks one payment request against the gateway. Status only ever
// moves pending -> completed; CompletedAt and PaymentID are set together
// with that transition and never cleared.
type Order struct {
	OrderID          string      `json:"orderId"`
	GatewayRequestID string      `json:"paymentRequestId"`
	Customer         Customer    `json:"customer"`
	Amount           int64       `json:"amount"`
	Purpose          string      `json:"purpose"`
	Status           OrderStatus `json:"status"`
	PaymentID        string      `json:"paymentId,omitempty"`
	LongURL          string      `json:"longurl"`
	ShortURL         string      `json:"shorturl,omitempty"`
	TestMode         bool        `json:"testMode"`
	CreatedAt        time.Time   `json:"createdAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
}
