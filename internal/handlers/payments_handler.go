package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

const (
	msgPaymentApproved = "Payment approved! Your order is on its way to the kitchen."
	msgPaymentNotFinal = "We could not confirm your payment. If you were charged, please talk to our staff."
)

// paymentReturn is where the payment provider sends the customer back. The
// payment counts as approved only when the provider confirms what the query
// string claims.
func (h *handler) paymentReturn(c *gin.Context) {
	paymentID := c.Query("payment_id")
	claimed := c.Query("status")

	approved := false
	if paymentID != "" && claimed == backend.PaymentApproved {
		status, err := h.Payments.VerifyPaymentStatus(c.Request.Context(), paymentID)
		if err != nil {
			h.logger.Warn("verify payment failed", zap.String("payment_id", paymentID), zap.Error(err))
		}
		approved = err == nil && status == backend.PaymentApproved
	}

	msg := msgPaymentNotFinal
	if approved {
		msg = msgPaymentApproved
	}
	c.JSON(http.StatusOK, gin.H{"approved": approved, "paymentId": paymentID, "message": msg})
}

// paymentNotification queues a provider webhook for the worker.
func (h *handler) paymentNotification(c *gin.Context) {
	if h.Notifications == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notifications_disabled"})
		return
	}
	var req validation.PaymentNotification
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}

	corr := c.GetHeader("X-Request-Id")
	if corr == "" {
		corr = uuid.NewString()
	}
	ev := orders.PaymentEvent{Type: orders.PaymentEventType, OrderID: req.OrderID, PaymentID: req.PaymentID, CorrelationID: corr}
	attrs := map[string]string{
		"event_type":     orders.PaymentEventType,
		"order_id":       req.OrderID,
		"payment_id":     req.PaymentID,
		"correlation_id": corr,
	}
	if err := h.Notifications.Publish(c.Request.Context(), ev, attrs); err != nil {
		h.logger.Error("enqueue payment notification failed", zap.String("order_id", req.OrderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
