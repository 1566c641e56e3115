package command

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/pkg/logger"
)

// AddItemCommand represents the command to add units of a product to a cart
type AddItemCommand struct {
	CartID    string
	ProductID string
	Quantity  int
}

// AddItemHandler handles adding a line item
type AddItemHandler struct {
	repo  domain.CartRepository
	stock domain.StockCoordinator
}

// NewAddItemHandler creates a new add item handler
func NewAddItemHandler(repo domain.CartRepository, stock domain.StockCoordinator) *AddItemHandler {
	return &AddItemHandler{repo: repo, stock: stock}
}

// Handle reserves catalog stock for the requested quantity, then records it
// on the cart line. The reservation happens before the cart persists; if the
// cart write then fails the reservation is rolled back.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (*domain.Cart, error) {
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, cmd.Quantity)
	}

	// Reject a missing cart before touching stock.
	if _, err := h.repo.FindByID(ctx, cmd.CartID); err != nil {
		return nil, err
	}

	if err := h.stock.Reserve(ctx, cmd.ProductID, cmd.Quantity); err != nil {
		return nil, err
	}

	cart, err := h.repo.Mutate(ctx, cmd.CartID, func(c *domain.Cart) error {
		if i := c.LineIndex(cmd.ProductID); i >= 0 {
			c.Products[i].Quantity += cmd.Quantity
			return nil
		}
		c.Products = append(c.Products, domain.LineItem{
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
		})
		return nil
	})
	if err != nil {
		// The units were reserved but the cart write failed; hand them back.
		if relErr := h.stock.Release(ctx, cmd.ProductID, cmd.Quantity); relErr != nil {
			logger.Warn(ctx).Err(relErr).
				Str("cart_id", cmd.CartID).
				Str("product_id", cmd.ProductID).
				Int("quantity", cmd.Quantity).
				Msg("Failed to roll back stock reservation")
		}
		return nil, err
	}
	return cart, nil
}
