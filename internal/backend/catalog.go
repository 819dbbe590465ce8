package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
)

// ListCategories returns every category, active or not.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var out struct {
		Categories []catalog.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/categorias", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// ListProducts returns all products, or those of one category when
// categoryID is set.
func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]catalog.Product, error) {
	var q url.Values
	if categoryID != "" && categoryID != catalog.AllCategories {
		q = url.Values{"categoria": {categoryID}}
	}
	var out struct {
		Products []catalog.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/produtos", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetProduct fetches one product. A missing product yields an error wrapping ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var out struct {
		Product *catalog.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/produtos/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "product not found"}
	}
	return out.Product, nil
}

// GetRestaurantConfig fetches the storefront header data.
func (c *Client) GetRestaurantConfig(ctx context.Context) (*catalog.RestaurantConfig, error) {
	var out catalog.RestaurantConfig
	if err := c.do(ctx, http.MethodGet, "/configuracao", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCategory adds a category. Requires a staff token.
func (c *Client) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	var out struct {
		Category catalog.Category `json:"category"`
	}
	body := map[string]string{"nome": name}
	if err := c.do(ctx, http.MethodPost, "/categorias", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Category, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*catalog.Category, error) {
	var out struct {
		Category catalog.Category `json:"category"`
	}
	body := map[string]string{"nome": name}
	if err := c.do(ctx, http.MethodPut, "/categorias/"+url.PathEscape(id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Category, nil
}

// ToggleCategory flips a category's active flag.
func (c *Client) ToggleCategory(ctx context.Context, id string) (*catalog.Category, error) {
	var out struct {
		Category catalog.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPatch, "/categorias/"+url.PathEscape(id)+"/toggle", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Category, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categorias/"+url.PathEscape(id), nil, nil, nil)
}

// SetProductAvailability marks a product as available or unavailable.
func (c *Client) SetProductAvailability(ctx context.Context, id string, available bool) (*catalog.Product, error) {
	var out struct {
		Product catalog.Product `json:"updatedProduct"`
	}
	body := map[string]bool{"isAvailable": available}
	if err := c.do(ctx, http.MethodPatch, "/produtos/"+url.PathEscape(id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// UpdateProduct replaces a product's name, price, description, category and
// ingredients.
func (c *Client) UpdateProduct(ctx context.Context, id string, details catalog.ProductDetails) (*catalog.Product, error) {
	var out struct {
		Product catalog.Product `json:"updatedProduct"`
	}
	if err := c.do(ctx, http.MethodPut, "/produtos/"+url.PathEscape(id), nil, details, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// UpdateStoreName renames the restaurant shown in the storefront header.
func (c *Client) UpdateStoreName(ctx context.Context, name string) (*catalog.RestaurantConfig, error) {
	var out struct {
		Config catalog.RestaurantConfig `json:"config"`
	}
	body := map[string]string{"storeName": name}
	if err := c.do(ctx, http.MethodPut, "/configuracao", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Config, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/produtos/"+url.PathEscape(id), nil, nil, nil)
}
