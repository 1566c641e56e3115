package command

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// UpdateProductCommand represents a partial product update. Only non-nil
// patch fields are applied.
type UpdateProductCommand struct {
	ID    string
	Patch domain.ProductPatch
}

// UpdateProductHandler handles product updates
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}
	if err := validatePatch(cmd.Patch); err != nil {
		return nil, err
	}

	patch := cmd.Patch
	if patch.Price != nil {
		rounded := roundPrice(*patch.Price)
		patch.Price = &rounded
	}

	return h.repo.Update(ctx, cmd.ID, patch)
}

func validatePatch(patch domain.ProductPatch) error {
	if patch.Title != nil && (*patch.Title == "" || len(*patch.Title) > 100) {
		return fmt.Errorf("%w: title must be 1-100 characters", domain.ErrInvalidProduct)
	}
	if patch.Description != nil && (*patch.Description == "" || len(*patch.Description) > 500) {
		return fmt.Errorf("%w: description must be 1-500 characters", domain.ErrInvalidProduct)
	}
	if patch.Code != nil && (*patch.Code == "" || len(*patch.Code) > 20) {
		return fmt.Errorf("%w: code must be 1-20 characters", domain.ErrInvalidProduct)
	}
	if patch.Category != nil && (*patch.Category == "" || len(*patch.Category) > 50) {
		return fmt.Errorf("%w: category must be 1-50 characters", domain.ErrInvalidProduct)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidProduct)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidProduct)
	}
	return nil
}
