package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
)

const (
	msgMenuUnavailable = "We could not load the menu. Please try again."
	msgNoProducts      = "No products available in this category."
	msgProductNotFound = "Product not found."
)

type menuResponse struct {
	Store      *catalog.RestaurantConfig `json:"store,omitempty"`
	Categories []catalog.Category        `json:"categories"`
	Products   []catalog.Product         `json:"products"`
	Message    string                    `json:"message,omitempty"`
}

// getMenu returns the visible menu, optionally narrowed to one category.
func (h *handler) getMenu(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		h.collaboratorError(c, err, msgMenuUnavailable)
		return
	}
	products, err := h.Catalog.ListProducts(ctx, "")
	if err != nil {
		h.collaboratorError(c, err, msgMenuUnavailable)
		return
	}

	menu := catalog.Visible(categories, products, c.Query("category"))
	resp := menuResponse{Categories: menu.Categories, Products: menu.Products}
	if len(menu.Products) == 0 {
		resp.Message = msgNoProducts
	}

	// the header is decoration; the menu still works without it
	if cfg, err := h.Catalog.GetRestaurantConfig(ctx); err == nil {
		resp.Store = cfg
	} else {
		h.logger.Debug("restaurant config unavailable", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

// getProduct returns one orderable product. Hidden products look missing.
func (h *handler) getProduct(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.Catalog.GetProduct(ctx, c.Param("id"))
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
	c.JSON(http.StatusOK, gin.H{"product": p})
}
