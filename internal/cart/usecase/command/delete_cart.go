package command

import (
	"context"

	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/pkg/logger"
)

// DeleteCartCommand represents the command to remove a cart entirely
type DeleteCartCommand struct {
	CartID string
}

// DeleteCartHandler handles cart deletion
type DeleteCartHandler struct {
	repo  domain.CartRepository
	stock domain.StockCoordinator
}

// NewDeleteCartHandler creates a new delete cart handler
func NewDeleteCartHandler(repo domain.CartRepository, stock domain.StockCoordinator) *DeleteCartHandler {
	return &DeleteCartHandler{repo: repo, stock: stock}
}

// Handle removes the cart, then returns the removed snapshot's reserved
// stock (best-effort, per line). Deleting first means no new line can join
// the cart after the sweep starts; a concurrent add that loses the race
// fails on the missing cart and rolls its own reservation back. A failed
// stock return never blocks the deletion.
func (h *DeleteCartHandler) Handle(ctx context.Context, cmd DeleteCartCommand) error {
	removed, err := h.repo.Delete(ctx, cmd.CartID)
	if err != nil {
		return err
	}
	releaseAll(ctx, h.stock, removed)
	return nil
}

// releaseAll sweeps a cart's lines back into catalog stock, logging and
// continuing on per-line failures.
func releaseAll(ctx context.Context, stock domain.StockCoordinator, cart *domain.Cart) {
	for _, line := range cart.Products {
		if err := stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
			logger.Warn(ctx).Err(err).
				Str("cart_id", cart.ID).
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("Failed to return reserved stock, continuing sweep")
		}
	}
}
