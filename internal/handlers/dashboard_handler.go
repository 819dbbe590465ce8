package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/dashboard"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

const msgDashboardFailed = "The operation failed. Please try again."

func (h *handler) login(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.collaboratorError(c, err, "Invalid email or password.")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) listOrders(c *gin.Context) {
	var status orders.Status
	if q := c.Query("status"); q != "" {
		st, err := orders.ParseStatus(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status", "message": err.Error()})
			return
		}
		status = st
	}
	list, err := h.Dashboard.ListOrders(c.Request.Context(), status)
	if err != nil {
		h.collaboratorError(c, err, "We could not load the orders.")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) patchOrder(c *gin.Context) {
	var req validation.UpdateOrderStatusRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	o, err := h.Dashboard.UpdateStatus(c.Request.Context(), c.Param("id"), orders.Status(req.Status))
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pedido": o})
}

func (h *handler) listTables(c *gin.Context) {
	tables, err := h.Dashboard.Tables(c.Request.Context())
	if err != nil {
		h.collaboratorError(c, err, "We could not load the tables.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (h *handler) finalizeTable(c *gin.Context) {
	if err := h.Dashboard.FinalizeTable(c.Request.Context(), c.Param("table")); err != nil {
		h.dashboardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) register(c *gin.Context) {
	sum, err := h.Dashboard.Register(c.Request.Context())
	if err != nil {
		h.collaboratorError(c, err, "We could not load the register.")
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *handler) closeRegister(c *gin.Context) {
	sum, err := h.Dashboard.CloseRegister(c.Request.Context())
	if err != nil {
		h.collaboratorError(c, err, "We could not close the register.")
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *handler) adminCatalog(c *gin.Context) {
	cat, err := h.Dashboard.Catalog(c.Request.Context())
	if err != nil {
		h.collaboratorError(c, err, msgMenuUnavailable)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *handler) createCategory(c *gin.Context) {
	var req validation.CategoryRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	cat, err := h.Dashboard.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *handler) renameCategory(c *gin.Context) {
	var req validation.CategoryRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	cat, err := h.Dashboard.RenameCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *handler) toggleCategory(c *gin.Context) {
	cat, err := h.Dashboard.ToggleCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *handler) deleteCategory(c *gin.Context) {
	if err := h.Dashboard.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.dashboardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) setProductAvailability(c *gin.Context) {
	var req validation.ProductAvailabilityRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	p, err := h.Dashboard.SetProductAvailability(c.Request.Context(), c.Param("id"), *req.IsAvailable)
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedProduct": p})
}

func (h *handler) updateProduct(c *gin.Context) {
	var req validation.ProductRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	p, err := h.Dashboard.UpdateProduct(c.Request.Context(), c.Param("id"), catalog.ProductDetails{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		CategoryID:  req.Category,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedProduct": p})
}

func (h *handler) updateStoreConfig(c *gin.Context) {
	var req validation.StoreConfigRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return
	}
	cfg, err := h.Dashboard.RenameStore(c.Request.Context(), req.StoreName)
	if err != nil {
		h.dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

func (h *handler) deleteProduct(c *gin.Context) {
	if err := h.Dashboard.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.dashboardError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// dashboardError maps dashboard rule violations before falling back to the
// collaborator mapping.
func (h *handler) dashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrInvalidTarget), errors.Is(err, dashboard.ErrEmptyName),
		errors.Is(err, dashboard.ErrInvalidPrice), errors.Is(err, dashboard.ErrMissingCategory),
		errors.Is(err, orders.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
	case errors.Is(err, dashboard.ErrTableNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": "table_not_ready", "message": err.Error()})
	case errors.Is(err, dashboard.ErrUnknownTable):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	default:
		h.collaboratorError(c, err, msgDashboardFailed)
	}
}
