package orders

import "time"

// Checkout record statuses.
const (
	RecordAwaitingPayment = "AWAITING_PAYMENT"
	RecordPaid            = "PAID"
	RecordDeclined        = "DECLINED"
)

// CheckoutRecord tracks an order submitted through this storefront until its
// payment is confirmed. It is stored in the checkouts DynamoDB table.
type CheckoutRecord struct {
	OrderID    string    `dynamodbav:"order_id"` // PK
	OrderCode  string    `dynamodbav:"order_code,omitempty"`
	SessionID  string    `dynamodbav:"session_id,omitempty"`
	Status     string    `dynamodbav:"status"` // AWAITING_PAYMENT | PAID | DECLINED
	Total      string    `dynamodbav:"total"`  // decimal string, e.g. "36.50"
	PaymentURL string    `dynamodbav:"payment_url,omitempty"`
	PaymentID  string    `dynamodbav:"payment_id,omitempty"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"`
	Attempts   int       `dynamodbav:"attempts,omitempty"`
}

// PaymentEventType tags payment notifications on the payments queue.
const PaymentEventType = "payment.notified"

// PaymentEvent is queued by the payment webhook and consumed by the worker.
type PaymentEvent struct {
	Type          string `json:"type,omitempty"`
	OrderID       string `json:"order_id"`
	PaymentID     string `json:"payment_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
