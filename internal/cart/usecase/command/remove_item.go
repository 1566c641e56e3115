package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/shop-backend/internal/cart/domain"
	catalogdomain "github.com/tair/shop-backend/internal/catalog/domain"
	"github.com/tair/shop-backend/pkg/logger"
)

// RemoveItemCommand represents the command to drop a line from a cart
type RemoveItemCommand struct {
	CartID    string
	ProductID string
}

// RemoveItemHandler handles removing a line item
type RemoveItemHandler struct {
	repo  domain.CartRepository
	stock domain.StockCoordinator
}

// NewRemoveItemHandler creates a new remove item handler
func NewRemoveItemHandler(repo domain.CartRepository, stock domain.StockCoordinator) *RemoveItemHandler {
	return &RemoveItemHandler{repo: repo, stock: stock}
}

// Handle removes the line and returns its reserved quantity to catalog
// stock. The quantity is read and the stock returned inside the same Mutate
// call that drops the line, so a concurrent quantity change cannot desync
// the release from the write. A reservation on a product that has since been
// deleted from the catalog is dropped with a warning.
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (*domain.Cart, error) {
	var released int
	updated, err := h.repo.Mutate(ctx, cmd.CartID, func(c *domain.Cart) error {
		released = 0
		i := c.LineIndex(cmd.ProductID)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, cmd.ProductID)
		}
		quantity := c.Products[i].Quantity

		if err := h.stock.Release(ctx, cmd.ProductID, quantity); err != nil {
			if !errors.Is(err, catalogdomain.ErrProductNotFound) {
				return err
			}
			logger.Warn(ctx).
				Str("cart_id", cmd.CartID).
				Str("product_id", cmd.ProductID).
				Int("quantity", quantity).
				Msg("Dropping reservation for a product no longer in the catalog")
		} else {
			released = quantity
		}

		c.Products = append(c.Products[:i], c.Products[i+1:]...)
		return nil
	})
	if err != nil {
		// A non-zero released count means stock went back but the cart write
		// failed afterwards; re-reserve so the line stays covered.
		if released > 0 {
			if resErr := h.stock.Reserve(ctx, cmd.ProductID, released); resErr != nil {
				logger.Warn(ctx).Err(resErr).
					Str("cart_id", cmd.CartID).
					Str("product_id", cmd.ProductID).
					Msg("Failed to re-reserve stock after cart write failure")
			}
		}
		return nil, err
	}
	return updated, nil
}
