package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// CreateOrder submits a new order. The backend resolves prices and returns
// the persisted order.
func (c *Client) CreateOrder(ctx context.Context, payload orders.CreatePayload) (*orders.Order, error) {
	var out struct {
		Message string        `json:"message"`
		Order   *orders.Order `json:"pedido"`
	}
	if err := c.do(ctx, http.MethodPost, "/pedidos", nil, payload, &out); err != nil {
		return nil, err
	}
	if out.Order == nil || out.Order.ID == "" {
		return nil, errors.New("create order: response has no order")
	}
	return out.Order, nil
}

// ListOrders returns every order. Requires a staff token.
func (c *Client) ListOrders(ctx context.Context) ([]orders.Order, error) {
	var out struct {
		Orders []orders.Order `json:"pedidos"`
	}
	if err := c.do(ctx, http.MethodGet, "/pedidos", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// UpdateOrderStatus moves an order along the kitchen lifecycle.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error) {
	var out struct {
		Order *orders.Order `json:"pedido"`
	}
	body := map[string]orders.Status{"orderStatus": status}
	if err := c.do(ctx, http.MethodPatch, "/pedidos/"+url.PathEscape(id), nil, body, &out); err != nil {
		return nil, err
	}
	return out.Order, nil
}

// FinalizeTable deletes every order of a table.
func (c *Client) FinalizeTable(ctx context.Context, table string) error {
	return c.do(ctx, http.MethodDelete, "/pedidos/mesa/"+url.PathEscape(table), nil, nil, nil)
}

// ClearOrders deletes all orders (register close).
func (c *Client) ClearOrders(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/pedidos", nil, nil, nil)
}
