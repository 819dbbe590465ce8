package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/session"
)

// Stages at which a checkout can fail.
const (
	StageValidation  = "validation"
	StageCreateOrder = "create_order"
	StagePayment     = "payment"
)

// User-facing messages for collaborator failures.
const (
	MsgCreateOrderFailed = "We could not place your order. Please try again."
	MsgPaymentFailed     = "We could not start the payment. Please try again."
)

// ErrInFlight is returned when the session already has a checkout running.
var ErrInFlight = errors.New("a checkout is already in progress for this session")

// Error is a failed checkout. Err is a *draft.ValidationError for
// StageValidation and the collaborator error otherwise.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("checkout failed at %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text to show the customer. When the order service
// rejects the order with a message of its own, that message is shown.
func (e *Error) UserMessage() string {
	var ve *draft.ValidationError
	if errors.As(e.Err, &ve) {
		return ve.Message
	}
	if e.Stage == StagePayment {
		return MsgPaymentFailed
	}
	var apiErr *backend.APIError
	if errors.As(e.Err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgCreateOrderFailed
}

// OrderCreator submits orders to the order service.
type OrderCreator interface {
	CreateOrder(ctx context.Context, payload orders.CreatePayload) (*orders.Order, error)
}

// PaymentGateway hands an order over to the payment provider.
type PaymentGateway interface {
	CreatePaymentPreference(ctx context.Context, pref orders.PaymentPreference) (string, error)
}

// Recorder keeps a local record of submitted checkouts.
type Recorder interface {
	Create(ctx context.Context, rec orders.CheckoutRecord) error
}

// Publisher emits checkout events.
type Publisher interface {
	Publish(ctx context.Context, msg interface{}, attributes map[string]string) error
}

// Metrics receives checkout outcomes.
type Metrics interface {
	CheckoutSucceeded(ctx context.Context, method string, total decimal.Decimal) error
	CheckoutFailed(ctx context.Context, stage string) error
}

// Form is the final checkout form. Email goes to the payment provider only.
type Form struct {
	Name  string
	Email string
	Phone string
}

// Result is a completed checkout. The caller sends the customer to RedirectURL.
type Result struct {
	RedirectURL string
	Order       *orders.Order
}

// CreatedEvent is published after a successful checkout.
type CreatedEvent struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	OrderCode  string          `json:"order_code,omitempty"`
	SessionID  string          `json:"session_id"`
	Method     string          `json:"consumption_method"`
	Table      string          `json:"table_number,omitempty"`
	Total      decimal.Decimal `json:"total"`
	PaymentURL string          `json:"payment_url"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Service runs the checkout sequence.
type Service struct {
	orders   OrderCreator
	payments PaymentGateway
	logger   *zap.Logger
	nowFunc  func() time.Time

	recorder  Recorder
	publisher Publisher
	metrics   Metrics

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option configures optional collaborators.
type Option func(*Service)

func WithRecorder(r Recorder) Option   { return func(s *Service) { s.recorder = r } }
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithMetrics(m Metrics) Option     { return func(s *Service) { s.metrics = m } }

func NewService(oc OrderCreator, pg PaymentGateway, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		orders:   oc,
		payments: pg,
		logger:   logger.Named("checkout"),
		nowFunc:  time.Now,
		inFlight: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the session's cart and draft into an order and a payment
// redirect. On any failure the cart and the stored draft are left exactly as
// they were, so the customer can retry. On success only the submitted lines
// leave the cart.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, form Form) (*Result, error) {
	if !s.acquire(sess.ID) {
		return nil, ErrInFlight
	}
	defer s.release(sess.ID)

	log := s.logger.With(zap.String("session_id", sess.ID))

	candidate := sess.Draft.Current().Merge(form.Name, form.Phone)
	lines := sess.Cart.Lines()
	if err := draft.Validate(candidate, len(lines)); err != nil {
		log.Info("checkout rejected", zap.Error(err))
		s.fail(ctx, StageValidation)
		return nil, &Error{Stage: StageValidation, Err: err}
	}

	order, err := s.orders.CreateOrder(ctx, buildPayload(candidate, lines))
	if err != nil {
		log.Warn("create order failed", zap.Error(err))
		s.fail(ctx, StageCreateOrder)
		return nil, &Error{Stage: StageCreateOrder, Err: err}
	}
	log = log.With(zap.String("order_id", order.ID))

	pref := orders.PaymentPreference{
		OrderID: order.ID,
		Items:   order.Items,
		Payer:   orders.Payer{Name: order.CustomerName, Email: strings.TrimSpace(form.Email)},
	}
	paymentURL, err := s.payments.CreatePaymentPreference(ctx, pref)
	if err != nil {
		// the order exists server-side but stays unpaid
		log.Error("create payment preference failed", zap.Error(err))
		s.fail(ctx, StagePayment)
		return nil, &Error{Stage: StagePayment, Err: err}
	}

	sess.Draft.Replace(candidate)
	sess.Cart.Dispatch(cart.RemoveOrdered{Lines: lines})

	log.Info("checkout completed", zap.String("order_code", order.Code), zap.String("total", order.Total.StringFixed(2)))
	s.afterSuccess(ctx, sess.ID, candidate, order, paymentURL)

	return &Result{RedirectURL: paymentURL, Order: order}, nil
}

func buildPayload(d draft.Draft, lines []cart.Line) orders.CreatePayload {
	refs := make([]orders.ProductRef, 0, len(lines))
	for _, l := range lines {
		refs = append(refs, orders.ProductRef{ID: l.ItemID, Quantity: l.Quantity})
	}
	p := orders.CreatePayload{
		CustomerName:  strings.TrimSpace(d.CustomerName),
		CustomerPhone: strings.TrimSpace(d.CustomerPhone),
		Products:      refs,
		Method:        d.Method,
	}
	if t := strings.TrimSpace(d.TableNumber); t != "" && d.Method == draft.DineIn {
		p.TableNumber = &t
	}
	return p
}

// afterSuccess runs side effects that must never fail a completed checkout.
func (s *Service) afterSuccess(ctx context.Context, sessionID string, d draft.Draft, order *orders.Order, paymentURL string) {
	now := s.nowFunc().UTC()

	if s.recorder != nil {
		rec := orders.CheckoutRecord{
			OrderID:    order.ID,
			OrderCode:  order.Code,
			SessionID:  sessionID,
			Status:     orders.RecordAwaitingPayment,
			Total:      order.Total.StringFixed(2),
			PaymentURL: paymentURL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.recorder.Create(ctx, rec); err != nil {
			s.logger.Warn("record checkout failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if s.publisher != nil {
		ev := CreatedEvent{
			Type:       "checkout.created",
			OrderID:    order.ID,
			OrderCode:  order.Code,
			SessionID:  sessionID,
			Method:     string(d.Method),
			Table:      order.Table(),
			Total:      order.Total,
			PaymentURL: paymentURL,
			CreatedAt:  now,
		}
		attrs := map[string]string{"event_type": ev.Type, "order_id": order.ID}
		if err := s.publisher.Publish(ctx, ev, attrs); err != nil {
			s.logger.Warn("publish checkout event failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if s.metrics != nil {
		if err := s.metrics.CheckoutSucceeded(ctx, string(d.Method), order.Total); err != nil {
			s.logger.Debug("emit metric failed", zap.Error(err))
		}
	}
}

func (s *Service) fail(ctx context.Context, stage string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.CheckoutFailed(ctx, stage); err != nil {
		s.logger.Debug("emit metric failed", zap.Error(err))
	}
}

func (s *Service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}
