package query

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/cart/domain"
)

// GetCartQuery represents the query to fetch one cart
type GetCartQuery struct {
	ID string
}

// GetCartHandler handles get cart query
type GetCartHandler struct {
	repo domain.CartRepository
}

// NewGetCartHandler creates a new get cart handler
func NewGetCartHandler(repo domain.CartRepository) *GetCartHandler {
	return &GetCartHandler{repo: repo}
}

// Handle executes the get cart query
func (h *GetCartHandler) Handle(ctx context.Context, q GetCartQuery) (*domain.Cart, error) {
	if q.ID == "" {
		return nil, fmt.Errorf("%w: empty cart id", domain.ErrCartNotFound)
	}
	return h.repo.FindByID(ctx, q.ID)
}
