package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/checkout"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

type checkoutResponse struct {
	RedirectURL string `json:"redirectUrl"`
	OrderID     string `json:"orderId"`
	OrderCode   string `json:"orderCode,omitempty"`
	Total       string `json:"total"`
}

// postCheckout runs the checkout for the session. With an Idempotency-Key
// header, a repeated submission replays the first response instead of
// creating a second order.
func (h *handler) postCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)

	var req validation.CheckoutRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}

	idempKey := c.GetHeader("Idempotency-Key")
	guarded := idempKey != "" && h.Idempotency != nil
	if guarded {
		rec, acquired, err := h.Idempotency.Begin(ctx, idempKey, sess.ID)
		if errors.Is(err, idempotency.ErrKeyReused) {
			h.logger.Warn("idempotency key reused across sessions", zap.String("idempotency_key", idempKey), zap.String("session_id", sess.ID))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency_key_reused", "message": "This request key cannot be used for your order. Please submit again."})
			return
		}
		if err != nil {
			h.logger.Error("idempotency check failed", zap.String("idempotency_key", idempKey), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "idempotency_check_failed", "message": "Please try again in a moment."})
			return
		}
		if !acquired {
			h.replay(c, rec)
			return
		}
	}

	res, err := h.Checkout.Checkout(ctx, sess, checkout.Form{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		if guarded {
			if mErr := h.Idempotency.MarkFailed(ctx, idempKey, err.Error()); mErr != nil {
				h.logger.Warn("mark idempotency failed", zap.String("idempotency_key", idempKey), zap.Error(mErr))
			}
		}
		h.checkoutError(c, err)
		return
	}

	body := checkoutResponse{
		RedirectURL: res.RedirectURL,
		OrderID:     res.Order.ID,
		OrderCode:   res.Order.Code,
		Total:       res.Order.Total.StringFixed(2),
	}
	if guarded {
		raw, _ := json.Marshal(body)
		if err := h.Idempotency.MarkDone(ctx, idempKey, res.Order.ID, string(raw), http.StatusCreated); err != nil {
			h.logger.Warn("mark idempotency done failed", zap.String("idempotency_key", idempKey), zap.Error(err))
		}
	}

	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusSeeOther, res.RedirectURL)
		return
	}
	c.Header("Location", res.RedirectURL)
	c.JSON(http.StatusCreated, body)
}

func (h *handler) replay(c *gin.Context, rec *idempotency.IdempotencyRecord) {
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": rec.OrderID})
	case idempotency.StatusInProgress:
		c.JSON(http.StatusConflict, gin.H{"error": "checkout_in_progress", "message": idempotency.ErrInProgress.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}

func (h *handler) checkoutError(c *gin.Context, err error) {
	_ = c.Error(err)

	if errors.Is(err, checkout.ErrInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": "checkout_in_progress", "message": "Your order is already being placed."})
		return
	}

	var ce *checkout.Error
	if !errors.As(err, &ce) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout_failed", "message": checkout.MsgCreateOrderFailed})
		return
	}

	var ve *draft.ValidationError
	if errors.As(ce.Err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "field": ve.Field, "message": ve.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   fmt.Sprintf("%s_failed", ce.Stage),
		"stage":   ce.Stage,
		"message": ce.UserMessage(),
	})
}
