package domain

import (
	"context"
	"errors"
	"time"
)

// Catalog store errors
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateCode     = errors.New("product code already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidProduct    = errors.New("invalid product data")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
)

// Product represents one catalog entry. Stock counts available (unreserved)
// units; units held in cart lines are not included.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Status      bool      `json:"status"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Thumbnails  []string  `json:"thumbnails"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAvailable checks if the product can be sold at all
func (p *Product) IsAvailable() bool {
	return p.Stock > 0 && p.Status
}

// ProductPatch is a partial update. Nil fields are left untouched; the
// product id is never patchable.
type ProductPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Code        *string   `json:"code,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Status      *bool     `json:"status,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Thumbnails  *[]string `json:"thumbnails,omitempty"`
}

// IDGenerator produces opaque unique identifiers for new catalog entries.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to the IDGenerator interface.
type IDGeneratorFunc func() string

// NewID returns a fresh identifier.
func (f IDGeneratorFunc) NewID() string { return f() }

// StockDirection selects whether AdjustStock reserves or releases units.
type StockDirection string

const (
	StockIncrement StockDirection = "increment"
	StockDecrement StockDirection = "decrement"
)

// ProductRepository defines the contract for catalog data access. Every
// method is atomic with respect to the backing document: check-then-mutate
// pairs (code uniqueness, stock decrement) never observe interleaved writes.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context, limit int) ([]Product, error)
	CodeExists(ctx context.Context, code, excludeID string) (bool, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
	HasStock(ctx context.Context, id string, quantity int) (bool, error)
	AdjustStock(ctx context.Context, id string, quantity int, direction StockDirection) (*Product, error)
	Count(ctx context.Context) (int64, error)
}
