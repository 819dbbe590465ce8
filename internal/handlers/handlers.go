package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/backend"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/checkout"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/dashboard"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/session"
)

// CatalogReader serves the public menu.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	GetRestaurantConfig(ctx context.Context) (*catalog.RestaurantConfig, error)
}

// IdempotencyGuard deduplicates checkout submissions carrying an Idempotency-Key.
type IdempotencyGuard interface {
	Begin(ctx context.Context, key, sessionID string) (*idempotency.IdempotencyRecord, bool, error)
	MarkDone(ctx context.Context, key, orderID, responseBody string, responseStatus int) error
	MarkFailed(ctx context.Context, key, note string) error
}

// PaymentVerifier confirms payments with the provider.
type PaymentVerifier interface {
	VerifyPaymentStatus(ctx context.Context, paymentID string) (string, error)
}

// Publisher queues messages for the worker.
type Publisher interface {
	Publish(ctx context.Context, msg interface{}, attributes map[string]string) error
}

// Authenticator exchanges staff credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
}

// Deps groups dependencies for the HTTP handlers. Idempotency and
// Notifications are optional.
type Deps struct {
	Logger        *zap.Logger
	Validate      *validatorv10.Validate
	Catalog       CatalogReader
	Sessions      *session.Manager
	Checkout      *checkout.Service
	Idempotency   IdempotencyGuard
	Payments      PaymentVerifier
	Notifications Publisher
	Auth          Authenticator
	Dashboard     *dashboard.Service
}

// RegisterRoutes registers the storefront, payment and dashboard routes.
func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &handler{Deps: d, logger: d.Logger.Named("http")}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/menu", h.getMenu)
	r.GET("/products/:id", h.getProduct)

	store := r.Group("/", SessionMiddleware(d.Sessions))
	store.POST("/session/entry", h.postEntry)
	store.GET("/cart", h.getCart)
	store.POST("/cart/items", h.postCartItem)
	store.PUT("/cart/items/:id", h.putCartItem)
	store.DELETE("/cart/items/:id", h.deleteCartItem)
	store.DELETE("/cart", h.deleteCart)
	store.GET("/cart/events", h.cartEvents)
	store.GET("/draft", h.getDraft)
	store.PUT("/draft", h.putDraft)
	store.POST("/checkout", h.postCheckout)

	r.GET("/payments/return", h.paymentReturn)
	r.POST("/payments/notifications", h.paymentNotification)

	r.POST("/auth/login", h.login)
	dash := r.Group("/dashboard", AuthMiddleware())
	dash.GET("/orders", h.listOrders)
	dash.PATCH("/orders/:id", h.patchOrder)
	dash.GET("/tables", h.listTables)
	dash.DELETE("/tables/:table", h.finalizeTable)
	dash.GET("/register", h.register)
	dash.POST("/register/close", h.closeRegister)
	dash.GET("/catalog", h.adminCatalog)
	dash.POST("/categories", h.createCategory)
	dash.PUT("/categories/:id", h.renameCategory)
	dash.PATCH("/categories/:id/toggle", h.toggleCategory)
	dash.DELETE("/categories/:id", h.deleteCategory)
	dash.PUT("/products/:id", h.updateProduct)
	dash.PATCH("/products/:id", h.setProductAvailability)
	dash.DELETE("/products/:id", h.deleteProduct)
	dash.PUT("/store", h.updateStoreConfig)
}

type handler struct {
	Deps
	logger *zap.Logger
}

// collaboratorError writes the response for a failed backend call. Nothing
// here is fatal; the client always gets a message it can show.
func (h *handler) collaboratorError(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	if errors.Is(err, backend.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": message})
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			c.JSON(apiErr.StatusCode, gin.H{"error": "unauthorized", "message": "Your session has expired. Please log in again."})
			return
		}
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			msg := apiErr.Message
			if msg == "" {
				msg = message
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "rejected", "message": msg})
			return
		}
	}
	h.logger.Warn("collaborator call failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_failed", "message": message})
}

func currentSession(c *gin.Context) *session.Session {
	s, _ := c.Get(sessionKey)
	sess, _ := s.(*session.Session)
	return sess
}
