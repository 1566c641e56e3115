package query

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// GetProductQuery represents the query to fetch one product
type GetProductQuery struct {
	ID string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*domain.Product, error) {
	if q.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}
	return h.repo.FindByID(ctx, q.ID)
}
