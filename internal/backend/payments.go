package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// Payment statuses reported by the payment collaborator.
const (
	PaymentApproved = "approved"
	PaymentPending  = "pending"
	PaymentRejected = "rejected"
)

// CreatePaymentPreference registers the order with the payment provider and
// returns the URL the customer must be sent to.
func (c *Client) CreatePaymentPreference(ctx context.Context, pref orders.PaymentPreference) (string, error) {
	var out struct {
		PaymentURL string `json:"paymentUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/pagamentos/create-preference", nil, pref, &out); err != nil {
		return "", err
	}
	if out.PaymentURL == "" {
		return "", errors.New("create payment preference: response has no paymentUrl")
	}
	return out.PaymentURL, nil
}

// VerifyPaymentStatus asks the provider for the status of a payment.
func (c *Client) VerifyPaymentStatus(ctx context.Context, paymentID string) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/pagamentos/status/"+url.PathEscape(paymentID), nil, nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}
