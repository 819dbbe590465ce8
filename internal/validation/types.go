package validation

import "github.com/shopspring/decimal"

// AddItemRequest is the payload for POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

// SetQuantityRequest is the payload for PUT /cart/items/:id. Zero or less
// removes the line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// EntryRequest is the payload for POST /session/entry, usually built from
// the QR code query (?op=comer&table=7).
type EntryRequest struct {
	Method string `json:"method" validate:"omitempty,consumption_method"`
	Table  string `json:"table" validate:"omitempty,max=20"`
}

// DraftRequest updates the draft between screens.
type DraftRequest struct {
	Method string  `json:"method" validate:"omitempty,consumption_method"`
	Table  *string `json:"table" validate:"omitempty,max=20"`
}

// CheckoutRequest is the final checkout form.
type CheckoutRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// LoginRequest is the staff login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateOrderStatusRequest is the payload for PATCH /dashboard/orders/:id.
type UpdateOrderStatusRequest struct {
	Status string `json:"orderStatus" validate:"required,status_target"`
}

// CategoryRequest creates or renames a category.
type CategoryRequest struct {
	Name string `json:"nome" validate:"required,min=2,max=60"`
}

// ProductAvailabilityRequest toggles a product on the menu.
type ProductAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// ProductRequest edits a product's details.
type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=120"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Description string           `json:"description" validate:"max=500"`
	Category    string           `json:"category" validate:"required"`
	Ingredients []string         `json:"ingredients" validate:"max=50,dive,max=60"`
}

// StoreConfigRequest renames the restaurant.
type StoreConfigRequest struct {
	StoreName string `json:"storeName" validate:"required,max=80"`
}

// PaymentNotification is what the payment provider posts to the webhook.
type PaymentNotification struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
}
