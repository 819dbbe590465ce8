package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/session"
)

// --- fakes ---

type fakeOrders struct {
	mu       sync.Mutex
	payloads []orders.CreatePayload
	err      error
	block    chan struct{} // when set, CreateOrder waits on it
	entered  chan struct{}
}

func (f *fakeOrders) CreateOrder(ctx context.Context, p orders.CreatePayload) (*orders.Order, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return nil, f.err
	}
	var table *string
	if p.TableNumber != nil {
		t := *p.TableNumber
		table = &t
	}
	return &orders.Order{
		ID:           "order-1",
		Code:         "A001",
		CustomerName: p.CustomerName,
		Items: []orders.Item{
			{ProductID: "p1", ProductName: "Burger", Price: decimal.RequireFromString("10.00"), Quantity: 2},
			{ProductID: "p2", ProductName: "Juice", Price: decimal.RequireFromString("5.50"), Quantity: 3},
		},
		Method:      p.Method,
		TableNumber: table,
		Total:       decimal.RequireFromString("36.50"),
		Status:      orders.StatusNew,
	}, nil
}

type fakePayments struct {
	prefs []orders.PaymentPreference
	err   error
}

func (f *fakePayments) CreatePaymentPreference(ctx context.Context, p orders.PaymentPreference) (string, error) {
	f.prefs = append(f.prefs, p)
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.example/checkout/order-1", nil
}

type fakeRecorder struct{ recs []orders.CheckoutRecord }

func (f *fakeRecorder) Create(ctx context.Context, rec orders.CheckoutRecord) error {
	f.recs = append(f.recs, rec)
	return nil
}

type fakeMetrics struct {
	succeeded int
	failed    []string
}

func (f *fakeMetrics) CheckoutSucceeded(ctx context.Context, method string, total decimal.Decimal) error {
	f.succeeded++
	return nil
}

func (f *fakeMetrics) CheckoutFailed(ctx context.Context, stage string) error {
	f.failed = append(f.failed, stage)
	return nil
}

type fakePublisher struct{ msgs []interface{} }

func (f *fakePublisher) Publish(ctx context.Context, msg interface{}, attributes map[string]string) error {
	f.msgs = append(f.msgs, msg)
	return errors.New("queue unavailable")
}

func readySession(t *testing.T) *session.Session {
	t.Helper()
	m := session.NewManager(nil, nil)
	s, _ := m.GetOrCreate("sess-1")
	s.Cart.AddItem(catalog.Product{ID: "p1", Name: "Burger", Price: decimal.RequireFromString("10.00")}, 2)
	s.Cart.AddItem(catalog.Product{ID: "p2", Name: "Juice", Price: decimal.RequireFromString("5.50")}, 3)
	s.Draft.SetConsumptionMethod(draft.DineIn)
	s.Draft.SetTableNumber("7")
	return s
}

var form = Form{Name: "Ana", Email: "ana@example.com", Phone: "11999990000"}

// --- tests ---

func TestCheckout_Success_ClearsCart(t *testing.T) {
	oc, pg := &fakeOrders{}, &fakePayments{}
	rec, met, pub := &fakeRecorder{}, &fakeMetrics{}, &fakePublisher{}
	svc := NewService(oc, pg, nil, WithRecorder(rec), WithMetrics(met), WithPublisher(pub))
	s := readySession(t)

	res, err := svc.Checkout(context.Background(), s, form)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.RedirectURL != "https://pay.example/checkout/order-1" {
		t.Fatalf("unexpected redirect %q", res.RedirectURL)
	}
	if s.Cart.Len() != 0 || !s.Cart.Total().IsZero() {
		t.Fatalf("expected empty cart, got %d lines total %s", s.Cart.Len(), s.Cart.Total())
	}

	p := oc.payloads[0]
	if p.CustomerName != "Ana" || p.CustomerPhone != "11999990000" || p.Method != draft.DineIn {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p.TableNumber == nil || *p.TableNumber != "7" {
		t.Fatalf("expected table 7 in payload")
	}
	if len(p.Products) != 2 || p.Products[0] != (orders.ProductRef{ID: "p1", Quantity: 2}) {
		t.Fatalf("unexpected products %+v", p.Products)
	}

	pref := pg.prefs[0]
	if pref.OrderID != "order-1" || len(pref.Items) != 2 {
		t.Fatalf("unexpected preference %+v", pref)
	}
	if pref.Payer != (orders.Payer{Name: "Ana", Email: "ana@example.com"}) {
		t.Fatalf("unexpected payer %+v", pref.Payer)
	}

	if len(rec.recs) != 1 || rec.recs[0].Status != orders.RecordAwaitingPayment || rec.recs[0].Total != "36.50" {
		t.Fatalf("unexpected checkout record %+v", rec.recs)
	}
	if met.succeeded != 1 || len(met.failed) != 0 {
		t.Fatalf("unexpected metrics %+v", met)
	}
	// a failing publisher never fails the checkout
	if len(pub.msgs) != 1 {
		t.Fatalf("expected one event published")
	}
	if got := s.Draft.Current().CustomerName; got != "Ana" {
		t.Fatalf("expected finalized draft to keep customer name, got %q", got)
	}
}

func TestCheckout_OrderFailure_PreservesCartAndSkipsPayment(t *testing.T) {
	oc := &fakeOrders{err: errors.New("order service down")}
	pg := &fakePayments{}
	met := &fakeMetrics{}
	svc := NewService(oc, pg, nil, WithMetrics(met))
	s := readySession(t)
	before := s.Cart.Snapshot()
	draftBefore := s.Draft.Current()

	_, err := svc.Checkout(context.Background(), s, form)

	var ce *Error
	if !errors.As(err, &ce) || ce.Stage != StageCreateOrder {
		t.Fatalf("expected create_order error, got %v", err)
	}
	if ce.UserMessage() != MsgCreateOrderFailed {
		t.Fatalf("unexpected message %q", ce.UserMessage())
	}
	if len(pg.prefs) != 0 {
		t.Fatalf("payment must not be attempted")
	}
	after := s.Cart.Snapshot()
	if len(after.Lines) != len(before.Lines) || !after.Total.Equal(before.Total) {
		t.Fatalf("cart changed: before %+v after %+v", before, after)
	}
	if s.Draft.Current() != draftBefore {
		t.Fatalf("draft changed")
	}
	if len(met.failed) != 1 || met.failed[0] != StageCreateOrder {
		t.Fatalf("expected failure metric, got %+v", met.failed)
	}
}

func TestCheckout_PaymentFailure_PreservesCart(t *testing.T) {
	svc := NewService(&fakeOrders{}, &fakePayments{err: errors.New("provider timeout")}, nil)
	s := readySession(t)

	_, err := svc.Checkout(context.Background(), s, form)

	var ce *Error
	if !errors.As(err, &ce) || ce.Stage != StagePayment {
		t.Fatalf("expected payment error, got %v", err)
	}
	if ce.UserMessage() != MsgPaymentFailed {
		t.Fatalf("unexpected message %q", ce.UserMessage())
	}
	if s.Cart.Len() != 2 || s.Cart.Total().StringFixed(2) != "36.50" {
		t.Fatalf("cart must be preserved")
	}
}

func TestCheckout_ValidationRunsAgainstLiveCart(t *testing.T) {
	oc := &fakeOrders{}
	svc := NewService(oc, &fakePayments{}, nil)
	s := readySession(t)
	s.Cart.Clear()

	_, err := svc.Checkout(context.Background(), s, form)

	var ve *draft.ValidationError
	if !errors.As(err, &ve) || ve.Field != "products" {
		t.Fatalf("expected empty cart rejection, got %v", err)
	}
	if len(oc.payloads) != 0 {
		t.Fatalf("order service must not be called")
	}
}

func TestCheckout_DineInWithoutTable(t *testing.T) {
	svc := NewService(&fakeOrders{}, &fakePayments{}, nil)
	s := readySession(t)
	s.Draft.SetTableNumber("")

	_, err := svc.Checkout(context.Background(), s, form)

	var ce *Error
	if !errors.As(err, &ce) || ce.Stage != StageValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ce.UserMessage() != draft.MsgTableRequired {
		t.Fatalf("unexpected message %q", ce.UserMessage())
	}
}

func TestCheckout_TakeawayOmitsTable(t *testing.T) {
	oc := &fakeOrders{}
	svc := NewService(oc, &fakePayments{}, nil)
	s := readySession(t)
	s.Draft.SetConsumptionMethod(draft.Takeaway)

	if _, err := svc.Checkout(context.Background(), s, form); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if oc.payloads[0].TableNumber != nil {
		t.Fatalf("takeaway order must not carry a table")
	}
}

func TestCheckout_RejectsConcurrentSubmission(t *testing.T) {
	oc := &fakeOrders{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := NewService(oc, &fakePayments{}, nil)
	s := readySession(t)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(context.Background(), s, form)
		done <- err
	}()
	<-oc.entered

	if _, err := svc.Checkout(context.Background(), s, form); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(oc.block)
	if err := <-done; err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if len(oc.payloads) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(oc.payloads))
	}
}

func TestCheckout_KeepsItemsAddedDuringSubmission(t *testing.T) {
	oc := &fakeOrders{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := NewService(oc, &fakePayments{}, nil)
	s := readySession(t)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(context.Background(), s, form)
		done <- err
	}()
	<-oc.entered
	s.Cart.AddItem(catalog.Product{ID: "p1", Name: "Burger", Price: decimal.RequireFromString("10.00")}, 1)
	s.Cart.AddItem(catalog.Product{ID: "p9", Name: "Fries", Price: decimal.RequireFromString("7.00")}, 1)
	close(oc.block)

	if err := <-done; err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if got := oc.payloads[0].Products; len(got) != 2 || got[0].Quantity != 2 {
		t.Fatalf("unexpected submitted products %+v", got)
	}
	lines := s.Cart.Lines()
	if len(lines) != 2 || lines[0].ItemID != "p1" || lines[0].Quantity != 1 || lines[1].ItemID != "p9" {
		t.Fatalf("expected only the unsubmitted items to remain, got %+v", lines)
	}
}

func TestCheckout_OrderRejectionShowsServiceMessage(t *testing.T) {
	oc := &fakeOrders{err: &backend.APIError{StatusCode: 422, Message: "Produto indisponível no momento"}}
	svc := NewService(oc, &fakePayments{}, nil)

	_, err := svc.Checkout(context.Background(), readySession(t), form)

	var ce *Error
	if !errors.As(err, &ce) || ce.Stage != StageCreateOrder {
		t.Fatalf("expected create_order error, got %v", err)
	}
	if got := ce.UserMessage(); got != "Produto indisponível no momento" {
		t.Fatalf("unexpected message %q", got)
	}

	// server faults keep the generic text
	ce = &Error{Stage: StageCreateOrder, Err: &backend.APIError{StatusCode: 500, Message: "stack trace"}}
	if got := ce.UserMessage(); got != MsgCreateOrderFailed {
		t.Fatalf("unexpected message %q", got)
	}
}
