package domain

import (
	"context"
	"errors"
	"time"
)

// Cart store errors
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("product not found in cart")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// LineItem is one product reservation inside a cart. Quantity units of the
// product have already been taken out of catalog stock.
type LineItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Cart holds an ordered list of line items; a product id appears at most once.
type Cart struct {
	ID        string     `json:"id"`
	Products  []LineItem `json:"products"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LineIndex returns the position of the line for productID, or -1.
func (c *Cart) LineIndex(productID string) int {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// TotalQuantity returns the number of reserved units across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Products {
		total += c.Products[i].Quantity
	}
	return total
}

// CartRepository defines the contract for cart data access. Mutate runs its
// callback under the store lock so a load-mutate-save sequence is one atomic
// unit; a callback error aborts without persisting.
type CartRepository interface {
	Create(ctx context.Context, cart *Cart) error
	FindByID(ctx context.Context, id string) (*Cart, error)
	FindAll(ctx context.Context, limit int) ([]Cart, error)
	Mutate(ctx context.Context, id string, apply func(*Cart) error) (*Cart, error)
	Delete(ctx context.Context, id string) (*Cart, error)
}

// StockCoordinator is the catalog-side contract cart operations use to keep
// reserved quantities and available stock in balance. Reserve is an atomic
// check-and-decrement; Release returns previously reserved units.
type StockCoordinator interface {
	HasStock(ctx context.Context, productID string, quantity int) (bool, error)
	Reserve(ctx context.Context, productID string, quantity int) error
	Release(ctx context.Context, productID string, quantity int) error
}
