package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

// postEntry applies the QR code entry (method and table) to the session.
func (h *handler) postEntry(c *gin.Context) {
	var req validation.EntryRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	method, _ := draft.ParseMethod(req.Method) // validated above
	sess := currentSession(c)

	d, err := h.Sessions.ApplyEntry(c.Request.Context(), sess, method, strings.TrimSpace(req.Table))
	if err != nil {
		// the table is applied to the draft either way
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "draft": d})
}

func (h *handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Cart.Snapshot())
}

func (h *handler) postCartItem(c *gin.Context) {
	var req validation.AddItemRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	p, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		h.collaboratorError(c, err, msgProductNotFound)
		return
	}
	categories, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		h.collaboratorError(c, err, msgMenuUnavailable)
		return
	}
	if !catalog.IsOrderable(*p, categories) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": msgProductNotFound})
		return
	}

	cartOf(c).Dispatch(cart.AddItem{Item: *p, Quantity: req.Quantity})
	c.JSON(http.StatusOK, cartOf(c).Snapshot())
}

func (h *handler) putCartItem(c *gin.Context) {
	var req validation.SetQuantityRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	cartOf(c).Dispatch(cart.SetQuantity{ItemID: c.Param("id"), Quantity: *req.Quantity})
	c.JSON(http.StatusOK, cartOf(c).Snapshot())
}

func (h *handler) deleteCartItem(c *gin.Context) {
	cartOf(c).Dispatch(cart.RemoveItem{ItemID: c.Param("id")})
	c.JSON(http.StatusOK, cartOf(c).Snapshot())
}

func (h *handler) deleteCart(c *gin.Context) {
	cartOf(c).Dispatch(cart.Clear{})
	c.JSON(http.StatusOK, cartOf(c).Snapshot())
}

// cartEvents streams a snapshot now and after every cart change as
// server-sent events, until the client goes away. Changes that arrive while
// the client is still reading are coalesced and the next event always carries
// the cart as it is at send time.
func (h *handler) cartEvents(c *gin.Context) {
	ct := cartOf(c)
	changed := make(chan struct{}, 1)
	unsubscribe := ct.Subscribe(func(cart.Snapshot) {
		// subscribers run inline with the mutation and must not block
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	c.SSEvent("cart", ct.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-changed:
			c.SSEvent("cart", ct.Snapshot())
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *handler) getDraft(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Draft.Current())
}

// putDraft records method and table choices made between screens.
// Nothing is validated until checkout.
func (h *handler) putDraft(c *gin.Context) {
	var req validation.DraftRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	d := currentSession(c).Draft
	if req.Method != "" {
		m, _ := draft.ParseMethod(req.Method)
		d.SetConsumptionMethod(m)
	}
	if req.Table != nil {
		d.SetTableNumber(strings.TrimSpace(*req.Table))
	}
	c.JSON(http.StatusOK, d.Current())
}

func cartOf(c *gin.Context) *cart.Cart {
	return currentSession(c).Cart
}
