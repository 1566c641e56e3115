package command

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// DeleteProductCommand represents the command to remove a product
type DeleteProductCommand struct {
	ID string
}

// DeleteProductHandler handles product deletion
type DeleteProductHandler struct {
	repo domain.ProductRepository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle executes the delete product command and returns the removed record.
// Deletion is unconditional: a product still reserved in a cart is removed
// anyway, and the cart side drops the orphaned reservation on its next
// release attempt.
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}
	return h.repo.Delete(ctx, cmd.ID)
}
