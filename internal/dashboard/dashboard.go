package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// Table states shown on the tables board.
const (
	TableActive   = "ativa"
	TableFinished = "finalizada"
)

var (
	// ErrInvalidTarget is returned when staff try to move an order back to novo.
	ErrInvalidTarget = errors.New("orders can only be moved to preparando, finalizado or cancelado")
	// ErrTableNotReady is returned when a table still has unfinished orders.
	ErrTableNotReady = errors.New("table still has unfinished orders")
	// ErrUnknownTable is returned when no paid order references the table.
	ErrUnknownTable = errors.New("no paid orders for this table")
)

// Backend is the slice of the restaurant backend the staff dashboard uses.
type Backend interface {
	ListOrders(ctx context.Context) ([]orders.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error)
	FinalizeTable(ctx context.Context, table string) error
	ClearOrders(ctx context.Context) error

	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]catalog.Product, error)
	CreateCategory(ctx context.Context, name string) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*catalog.Category, error)
	ToggleCategory(ctx context.Context, id string) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	SetProductAvailability(ctx context.Context, id string, available bool) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, details catalog.ProductDetails) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStoreName(ctx context.Context, name string) (*catalog.RestaurantConfig, error)
}

// OrderList is the orders board: the orders plus a count per status.
type OrderList struct {
	Orders []orders.Order        `json:"orders"`
	Counts map[orders.Status]int `json:"counts"`
}

// Table groups the paid orders of one table.
type Table struct {
	Number      string          `json:"tableNumber"`
	Status      string          `json:"status"`
	CanFinalize bool            `json:"canFinalize"`
	Total       decimal.Decimal `json:"total"`
	Orders      []orders.Order  `json:"orders"`
}

// RegisterSummary is the cash register view: paid orders and their sum.
type RegisterSummary struct {
	PaidOrders int             `json:"paidOrders"`
	Total      decimal.Decimal `json:"total"`
}

// Service implements the staff dashboard. Every call needs a staff token in ctx.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

func NewService(b Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, logger: logger.Named("dashboard")}
}

// ListOrders returns all orders, newest first, optionally filtered by status.
// Counts always cover every order so the board tabs stay accurate.
func (s *Service) ListOrders(ctx context.Context, status orders.Status) (*OrderList, error) {
	all, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	counts := make(map[orders.Status]int, len(orders.Statuses))
	for _, st := range orders.Statuses {
		counts[st] = 0
	}
	out := make([]orders.Order, 0, len(all))
	for _, o := range all {
		counts[o.Status]++
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return &OrderList{Orders: out, Counts: counts}, nil
}

// UpdateStatus moves an order to preparando, finalizado or cancelado.
func (s *Service) UpdateStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error) {
	if status == orders.StatusNew {
		return nil, ErrInvalidTarget
	}
	if _, err := orders.ParseStatus(string(status)); err != nil {
		return nil, err
	}
	o, err := s.backend.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	s.logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	return o, nil
}

// Tables builds the tables board from paid dine-in orders, sorted by table number.
func (s *Service) Tables(ctx context.Context) ([]Table, error) {
	all, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return groupTables(all), nil
}

func groupTables(all []orders.Order) []Table {
	byTable := map[string]*Table{}
	var numbers []string
	for _, o := range all {
		n := o.Table()
		if n == "" || o.PaymentStatus != orders.PaymentPaid {
			continue
		}
		t, ok := byTable[n]
		if !ok {
			t = &Table{Number: n, Total: decimal.Zero}
			byTable[n] = t
			numbers = append(numbers, n)
		}
		t.Orders = append(t.Orders, o)
		t.Total = t.Total.Add(o.Total)
	}

	sort.SliceStable(numbers, func(i, j int) bool { return tableLess(numbers[i], numbers[j]) })

	out := make([]Table, 0, len(numbers))
	for _, n := range numbers {
		t := byTable[n]
		t.Status = TableFinished
		allFinished := true
		for _, o := range t.Orders {
			if o.Status.IsActive() {
				t.Status = TableActive
			}
			if o.Status != orders.StatusFinished {
				allFinished = false
			}
		}
		t.CanFinalize = t.Status == TableFinished && allFinished
		out = append(out, *t)
	}
	return out
}

// tableLess orders numeric table numbers numerically and puts free-text ones after them.
func tableLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

// FinalizeTable clears a table once all its orders are finalizado.
func (s *Service) FinalizeTable(ctx context.Context, number string) error {
	tables, err := s.Tables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t.Number != number {
			continue
		}
		if !t.CanFinalize {
			return ErrTableNotReady
		}
		if err := s.backend.FinalizeTable(ctx, number); err != nil {
			return fmt.Errorf("finalize table %s: %w", number, err)
		}
		s.logger.Info("table finalized", zap.String("table", number), zap.Int("orders", len(t.Orders)))
		return nil
	}
	return ErrUnknownTable
}

// Register sums the paid orders.
func (s *Service) Register(ctx context.Context) (*RegisterSummary, error) {
	all, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return summarize(all), nil
}

func summarize(all []orders.Order) *RegisterSummary {
	sum := &RegisterSummary{Total: decimal.Zero}
	for _, o := range all {
		if o.PaymentStatus == orders.PaymentPaid {
			sum.PaidOrders++
			sum.Total = sum.Total.Add(o.Total)
		}
	}
	return sum
}

// CloseRegister returns the day's summary and then deletes every order.
func (s *Service) CloseRegister(ctx context.Context) (*RegisterSummary, error) {
	sum, err := s.Register(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.backend.ClearOrders(ctx); err != nil {
		return nil, fmt.Errorf("clear orders: %w", err)
	}
	s.logger.Info("register closed", zap.Int("paid_orders", sum.PaidOrders), zap.String("total", sum.Total.StringFixed(2)))
	return sum, nil
}
