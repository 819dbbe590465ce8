package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/catalog"
)

var (
	// ErrEmptyName is returned for a blank category, product or store name.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrInvalidPrice is returned for a product price that is not positive.
	ErrInvalidPrice = errors.New("price must be greater than zero")
	// ErrMissingCategory is returned when a product is saved without a category.
	ErrMissingCategory = errors.New("product must belong to a category")
)

// Catalog is the admin view of the menu: every category and product,
// including hidden ones.
type Catalog struct {
	Categories []catalog.Category `json:"categories"`
	Products   []catalog.Product  `json:"products"`
}

func (s *Service) Catalog(ctx context.Context) (*Catalog, error) {
	cats, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	prods, err := s.backend.ListProducts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if cats == nil {
		cats = []catalog.Category{}
	}
	if prods == nil {
		prods = []catalog.Product{}
	}
	return &Catalog{Categories: cats, Products: prods}, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.backend.CreateCategory(ctx, name)
}

func (s *Service) RenameCategory(ctx context.Context, id, name string) (*catalog.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.backend.UpdateCategory(ctx, id, name)
}

// ToggleCategory hides or shows a category and, with it, all its products.
func (s *Service) ToggleCategory(ctx context.Context, id string) (*catalog.Category, error) {
	c, err := s.backend.ToggleCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("category toggled", zap.String("category_id", id), zap.Bool("active", c.IsActive))
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.backend.DeleteCategory(ctx, id)
}

func (s *Service) SetProductAvailability(ctx context.Context, id string, available bool) (*catalog.Product, error) {
	return s.backend.SetProductAvailability(ctx, id, available)
}

// UpdateProduct saves edited product details. Ingredients are trimmed and
// blank entries dropped.
func (s *Service) UpdateProduct(ctx context.Context, id string, d catalog.ProductDetails) (*catalog.Product, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.CategoryID = strings.TrimSpace(d.CategoryID)
	switch {
	case d.Name == "":
		return nil, ErrEmptyName
	case !d.Price.IsPositive():
		return nil, ErrInvalidPrice
	case d.CategoryID == "":
		return nil, ErrMissingCategory
	}

	ingredients := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	d.Ingredients = ingredients

	p, err := s.backend.UpdateProduct(ctx, id, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.String("product_id", id))
	return p, nil
}

func (s *Service) RenameStore(ctx context.Context, name string) (*catalog.RestaurantConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.backend.UpdateStoreName(ctx, name)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.backend.DeleteProduct(ctx, id)
}
