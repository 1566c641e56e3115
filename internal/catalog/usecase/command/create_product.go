package command

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// CreateProductCommand represents the command to add a product to the catalog
type CreateProductCommand struct {
	Title       string
	Description string
	Code        string // optional; synthesized when empty
	Price       float64
	Status      *bool // defaults to true
	Stock       int
	Category    string
	Thumbnails  []string
}

// CreateProductHandler handles product creation
type CreateProductHandler struct {
	repo  domain.ProductRepository
	newID domain.IDGenerator
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return NewCreateProductHandlerWithIDs(repo, domain.IDGeneratorFunc(uuid.NewString))
}

// NewCreateProductHandlerWithIDs creates a handler with an explicit
// identifier strategy.
func NewCreateProductHandlerWithIDs(repo domain.ProductRepository, newID domain.IDGenerator) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, newID: newID}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if err := validateProductFields(cmd.Title, cmd.Description, cmd.Category, cmd.Price, cmd.Stock); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(cmd.Code)
	if len(code) > 20 {
		return nil, fmt.Errorf("%w: code exceeds 20 characters", domain.ErrInvalidProduct)
	}
	if code == "" {
		// Distinct from existing codes with overwhelming probability;
		// the repository still enforces uniqueness on create.
		code = synthesizeCode()
	}

	status := true
	if cmd.Status != nil {
		status = *cmd.Status
	}
	thumbnails := cmd.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}

	now := time.Now()
	product := &domain.Product{
		ID:          h.newID.NewID(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Code:        code,
		Price:       roundPrice(cmd.Price),
		Status:      status,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
		Thumbnails:  thumbnails,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func validateProductFields(title, description, category string, price float64, stock int) error {
	if title == "" || len(title) > 100 {
		return fmt.Errorf("%w: title is required and must not exceed 100 characters", domain.ErrInvalidProduct)
	}
	if description == "" || len(description) > 500 {
		return fmt.Errorf("%w: description is required and must not exceed 500 characters", domain.ErrInvalidProduct)
	}
	if category == "" || len(category) > 50 {
		return fmt.Errorf("%w: category is required and must not exceed 50 characters", domain.ErrInvalidProduct)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidProduct)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidProduct)
	}
	return nil
}

// roundPrice keeps prices at two-decimal precision.
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

// synthesizeCode builds a fresh code from the creation instant plus a random
// suffix, fitting the 20-character limit. Base36 keeps the millisecond
// timestamp at 9 characters until the year 5188.
func synthesizeCode() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := uuid.NewString()[:4]
	return strings.ToUpper(fmt.Sprintf("AUTO-%s-%s", ts, suffix))
}
