package command

import (
	"context"

	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/pkg/logger"
)

// ClearCartCommand represents the command to empty a cart
type ClearCartCommand struct {
	CartID string
}

// ClearCartHandler handles emptying a cart
type ClearCartHandler struct {
	repo  domain.CartRepository
	stock domain.StockCoordinator
}

// NewClearCartHandler creates a new clear cart handler
func NewClearCartHandler(repo domain.CartRepository, stock domain.StockCoordinator) *ClearCartHandler {
	return &ClearCartHandler{repo: repo, stock: stock}
}

// Handle returns every line's reserved quantity to catalog stock and empties
// the line list. The sweep runs inside the Mutate call so it sees exactly the
// lines it is about to drop. Stock returns are best-effort: a failure on one
// line is logged and the sweep continues, so the cart still ends up empty.
func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) (*domain.Cart, error) {
	var returned []domain.LineItem
	cart, err := h.repo.Mutate(ctx, cmd.CartID, func(c *domain.Cart) error {
		returned = returned[:0]
		for _, line := range c.Products {
			if err := h.stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
				logger.Warn(ctx).Err(err).
					Str("cart_id", c.ID).
					Str("product_id", line.ProductID).
					Int("quantity", line.Quantity).
					Msg("Failed to return reserved stock, continuing sweep")
				continue
			}
			returned = append(returned, line)
		}
		c.Products = []domain.LineItem{}
		return nil
	})
	if err != nil {
		// The cart write failed after some units went back; take them out
		// again so the surviving lines stay covered.
		for _, line := range returned {
			if resErr := h.stock.Reserve(ctx, line.ProductID, line.Quantity); resErr != nil {
				logger.Warn(ctx).Err(resErr).
					Str("cart_id", cmd.CartID).
					Str("product_id", line.ProductID).
					Msg("Failed to re-reserve stock after cart write failure")
			}
		}
		return nil, err
	}
	return cart, nil
}
