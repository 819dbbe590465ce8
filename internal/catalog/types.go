package catalog

import "github.com/shopspring/decimal"

// Category groups products on the menu. Inactive categories are hidden.
type Category struct {
	ID       string `json:"_id"`
	Name     string `json:"nome"`
	IsActive bool   `json:"isActive"`
}

// Product is a purchasable menu item.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Ingredients []string        `json:"ingredients,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CategoryID  string          `json:"category"`
	IsAvailable bool            `json:"isAvailable"`
}

// ProductDetails are the editable fields of a product. The image is managed
// separately.
type ProductDetails struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category"`
	Ingredients []string        `json:"ingredients"`
}

// RestaurantConfig carries the storefront header data.
type RestaurantConfig struct {
	StoreName string `json:"storeName"`
	BannerURL string `json:"storeHouseUrl,omitempty"`
}
