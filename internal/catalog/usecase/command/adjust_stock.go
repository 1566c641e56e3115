package command

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// AdjustStockCommand represents the command to reserve or release stock
type AdjustStockCommand struct {
	ProductID string
	Quantity  int
	Direction domain.StockDirection
}

// AdjustStockHandler handles stock adjustments
type AdjustStockHandler struct {
	repo domain.ProductRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(repo domain.ProductRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Handle executes the stock adjustment. A decrement with insufficient stock
// fails without touching the product.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.Product, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, cmd.Quantity)
	}
	if cmd.Direction != domain.StockIncrement && cmd.Direction != domain.StockDecrement {
		return nil, fmt.Errorf("%w: direction must be %q or %q",
			domain.ErrInvalidProduct, domain.StockIncrement, domain.StockDecrement)
	}

	return h.repo.AdjustStock(ctx, cmd.ProductID, cmd.Quantity, cmd.Direction)
}
