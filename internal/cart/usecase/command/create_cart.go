package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tair/shop-backend/internal/cart/domain"
	catalogdomain "github.com/tair/shop-backend/internal/catalog/domain"
)

// CreateCartCommand represents the command to create an empty cart
type CreateCartCommand struct{}

// CreateCartHandler handles cart creation
type CreateCartHandler struct {
	repo  domain.CartRepository
	newID catalogdomain.IDGenerator
}

// NewCreateCartHandler creates a new create cart handler
func NewCreateCartHandler(repo domain.CartRepository) *CreateCartHandler {
	return NewCreateCartHandlerWithIDs(repo, catalogdomain.IDGeneratorFunc(uuid.NewString))
}

// NewCreateCartHandlerWithIDs creates a handler with an explicit identifier
// strategy.
func NewCreateCartHandlerWithIDs(repo domain.CartRepository, newID catalogdomain.IDGenerator) *CreateCartHandler {
	return &CreateCartHandler{repo: repo, newID: newID}
}

// Handle executes the create cart command
func (h *CreateCartHandler) Handle(ctx context.Context, _ CreateCartCommand) (*domain.Cart, error) {
	now := time.Now()
	cart := &domain.Cart{
		ID:        h.newID.NewID(),
		Products:  []domain.LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
