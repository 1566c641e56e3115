package query

import (
	"context"

	"github.com/tair/shop-backend/internal/cart/domain"
)

// ListCartsQuery represents the query to list carts
type ListCartsQuery struct {
	Limit int // 0 means no truncation
}

// ListCartsHandler handles list carts query
type ListCartsHandler struct {
	repo domain.CartRepository
}

// NewListCartsHandler creates a new list carts handler
func NewListCartsHandler(repo domain.CartRepository) *ListCartsHandler {
	return &ListCartsHandler{repo: repo}
}

// Handle returns carts in insertion order, truncated to Limit when set.
func (h *ListCartsHandler) Handle(ctx context.Context, q ListCartsQuery) ([]domain.Cart, error) {
	if q.Limit < 0 {
		q.Limit = 0
	}
	return h.repo.FindAll(ctx, q.Limit)
}
