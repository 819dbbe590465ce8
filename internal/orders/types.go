package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
)

// Status is the kitchen lifecycle of an order.
type Status string

const (
	StatusNew       Status = "novo"
	StatusPreparing Status = "preparando"
	StatusFinished  Status = "finalizado"
	StatusCancelled Status = "cancelado"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusNew, StatusPreparing, StatusFinished, StatusCancelled}

// PaymentStatus is whether the order has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pendente"
	PaymentPaid    PaymentStatus = "pago"
)

// PaymentMethod is how the order was paid.
type PaymentMethod string

const (
	PaymentMethodPending PaymentMethod = "Pendente"
	PaymentMethodCard    PaymentMethod = "Cartão"
	PaymentMethodPix     PaymentMethod = "Pix"
	PaymentMethodCash    PaymentMethod = "Dinheiro"
)

var (
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrUnknownPaymentStatus = errors.New("unknown payment status")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// ParseStatus validates s as an order status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// IsActive reports whether the kitchen is still working on the order.
func (s Status) IsActive() bool {
	return s == StatusNew || s == StatusPreparing
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch PaymentStatus(raw) {
	case PaymentPending, PaymentPaid:
		*s = PaymentStatus(raw)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPaymentStatus, raw)
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch PaymentMethod(raw) {
	case PaymentMethodPending, PaymentMethodCard, PaymentMethodPix, PaymentMethodCash:
		*m = PaymentMethod(raw)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, raw)
}

// Item is one resolved line of a persisted order.
type Item struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// MarshalJSON writes the price as a JSON number, which is what the payment
// collaborator expects.
func (i Item) MarshalJSON() ([]byte, error) {
	type wire struct {
		ProductID   string          `json:"productId"`
		ProductName string          `json:"productName"`
		Price       json.RawMessage `json:"price"`
		Quantity    int             `json:"quantity"`
	}
	return json.Marshal(wire{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Price:       json.RawMessage(i.Price.String()),
		Quantity:    i.Quantity,
	})
}

// Order is the server-owned persisted order.
type Order struct {
	ID            string                  `json:"_id"`
	Code          string                  `json:"orderCode"`
	CustomerName  string                  `json:"customerName"`
	CustomerPhone string                  `json:"customerTelefone,omitempty"`
	Items         []Item                  `json:"products"`
	Method        draft.ConsumptionMethod `json:"consumitionMethod"`
	TableNumber   *string                 `json:"tableNumber,omitempty"`
	Total         decimal.Decimal         `json:"total"`
	PaymentMethod PaymentMethod           `json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus           `json:"paymentStatus,omitempty"`
	Status        Status                  `json:"orderStatus"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// Table returns the table number or "".
func (o Order) Table() string {
	if o.TableNumber == nil {
		return ""
	}
	return *o.TableNumber
}

// ProductRef is one cart line in a creation payload. Prices are never sent.
type ProductRef struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CreatePayload is the order-creation request body.
type CreatePayload struct {
	CustomerName  string                  `json:"customerName"`
	CustomerPhone string                  `json:"customerTelefone,omitempty"`
	Products      []ProductRef            `json:"products"`
	Method        draft.ConsumptionMethod `json:"consumitionMethod"`
	TableNumber   *string                 `json:"tableNumber,omitempty"`
}

// Payer identifies who pays at the payment provider.
type Payer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PaymentPreference is the payment handoff request body.
type PaymentPreference struct {
	OrderID string `json:"orderId"`
	Items   []Item `json:"items"`
	Payer   Payer  `json:"payerInfo"`
}
