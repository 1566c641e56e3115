package query

import (
	"context"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// ListProductsQuery represents the query to list catalog products
type ListProductsQuery struct {
	Limit int // 0 means no truncation
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle returns products in insertion order, truncated to Limit when set.
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) ([]domain.Product, error) {
	if q.Limit < 0 {
		q.Limit = 0
	}
	return h.repo.FindAll(ctx, q.Limit)
}
