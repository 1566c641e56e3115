package command

import (
	"context"
	"fmt"

	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/pkg/logger"
)

// SetQuantityCommand represents the command to set a line's quantity
type SetQuantityCommand struct {
	CartID    string
	ProductID string
	Quantity  int
}

// SetQuantityHandler handles quantity updates on an existing line
type SetQuantityHandler struct {
	repo  domain.CartRepository
	stock domain.StockCoordinator
}

// NewSetQuantityHandler creates a new set quantity handler
func NewSetQuantityHandler(repo domain.CartRepository, stock domain.StockCoordinator) *SetQuantityHandler {
	return &SetQuantityHandler{repo: repo, stock: stock}
}

// Handle adjusts catalog stock by the delta between the current and the
// requested quantity, then persists the new quantity on the line. The line
// read, the stock adjustment and the cart write all run inside one Mutate
// call, so a concurrent line mutation cannot slip between the delta
// computation and the write and leak reserved units.
func (h *SetQuantityHandler) Handle(ctx context.Context, cmd SetQuantityCommand) (*domain.Cart, error) {
	if cmd.Quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, cmd.Quantity)
	}

	var applied int
	updated, err := h.repo.Mutate(ctx, cmd.CartID, func(c *domain.Cart) error {
		applied = 0
		i := c.LineIndex(cmd.ProductID)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, cmd.ProductID)
		}

		delta := cmd.Quantity - c.Products[i].Quantity
		switch {
		case delta > 0:
			if err := h.stock.Reserve(ctx, cmd.ProductID, delta); err != nil {
				return err
			}
		case delta < 0:
			if err := h.stock.Release(ctx, cmd.ProductID, -delta); err != nil {
				return err
			}
		}
		applied = delta

		c.Products[i].Quantity = cmd.Quantity
		return nil
	})
	if err != nil {
		// A non-zero applied delta means stock moved but the cart write
		// failed afterwards; reverse it.
		if applied != 0 {
			h.undoDelta(ctx, cmd, applied)
		}
		return nil, err
	}
	return updated, nil
}

// undoDelta reverses a stock adjustment after a failed cart write.
func (h *SetQuantityHandler) undoDelta(ctx context.Context, cmd SetQuantityCommand, delta int) {
	var err error
	switch {
	case delta > 0:
		err = h.stock.Release(ctx, cmd.ProductID, delta)
	case delta < 0:
		err = h.stock.Reserve(ctx, cmd.ProductID, -delta)
	}
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("cart_id", cmd.CartID).
			Str("product_id", cmd.ProductID).
			Int("delta", delta).
			Msg("Failed to roll back stock adjustment")
	}
}
