package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// RecordStore is the checkout-record table.
type RecordStore interface {
	Get(ctx context.Context, orderID string) (*orders.CheckoutRecord, error)
	UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus, paymentID string) error
	IncrementAttempts(ctx context.Context, orderID string) error
}

// PaymentVerifier asks the payment provider for the real payment status.
type PaymentVerifier interface {
	VerifyPaymentStatus(ctx context.Context, paymentID string) (string, error)
}

// PaymentMetrics counts settled payments.
type PaymentMetrics interface {
	PaymentResolved(ctx context.Context, confirmed bool) error
}

// Processor settles checkout records from queued payment notifications.
type Processor struct {
	records  RecordStore
	verifier PaymentVerifier
	metrics  PaymentMetrics // optional
	logger   *zap.Logger
}

// NewProcessor creates a new worker processor.
func NewProcessor(records RecordStore, verifier PaymentVerifier, m PaymentMetrics, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{records: records, verifier: verifier, metrics: m, logger: logger.Named("worker")}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Debug("received batch", zap.Int("messages", len(ev.Records)))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Error("worker error", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, msg events.SQSMessage) error {
	var ev orders.PaymentEvent
	if err := json.Unmarshal([]byte(msg.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	log := p.logger.With(
		zap.String("order_id", ev.OrderID),
		zap.String("payment_id", ev.PaymentID),
		zap.String("correlation_id", ev.CorrelationID),
	)

	// anything else on the queue would fail verification on every redelivery
	if ev.Type != "" && ev.Type != orders.PaymentEventType {
		log.Warn("unexpected event type, skipping", zap.String("type", ev.Type))
		return nil
	}
	if ev.OrderID == "" || ev.PaymentID == "" {
		log.Warn("payment notification without order or payment id, skipping")
		return nil
	}

	rec, err := p.records.Get(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch checkout record: %w", err)
	}
	if rec == nil {
		// order placed outside this storefront; nothing to settle
		log.Info("no checkout record, skipping")
		return nil
	}
	if rec.Status != orders.RecordAwaitingPayment {
		log.Info("checkout already settled", zap.String("status", rec.Status))
		return nil
	}

	status, err := p.verifier.VerifyPaymentStatus(ctx, ev.PaymentID)
	if err != nil {
		if incErr := p.records.IncrementAttempts(ctx, ev.OrderID); incErr != nil {
			log.Warn("increment attempts failed", zap.Error(incErr))
		}
		return fmt.Errorf("verify payment: %w", err)
	}

	var next string
	switch status {
	case backend.PaymentApproved:
		next = orders.RecordPaid
	case backend.PaymentRejected, "cancelled":
		next = orders.RecordDeclined
	default:
		// pending or in process: the provider notifies again when it settles
		log.Info("payment not final yet", zap.String("provider_status", status))
		return nil
	}

	err = p.records.UpdateStatus(ctx, ev.OrderID, orders.RecordAwaitingPayment, next, ev.PaymentID)
	if errors.Is(err, orders.ErrStatusMismatch) {
		// a competing delivery settled it first
		log.Info("duplicate payment notification")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update status to %s: %w", next, err)
	}

	if p.metrics != nil {
		if err := p.metrics.PaymentResolved(ctx, next == orders.RecordPaid); err != nil {
			log.Debug("emit metric failed", zap.Error(err))
		}
	}
	log.Info("checkout settled", zap.String("status", next))
	return nil
}
