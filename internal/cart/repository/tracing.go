package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/shop-backend/internal/cart/domain"
)

var tracer = otel.Tracer("cart-repository")

// TracingCartRepository wraps a CartRepository with tracing spans.
type TracingCartRepository struct {
	next domain.CartRepository
}

// NewTracingCartRepository creates a repository decorator that records one
// span per store operation.
func NewTracingCartRepository(next domain.CartRepository) *TracingCartRepository {
	return &TracingCartRepository{next: next}
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	ctx, span := tracer.Start(ctx, "cart.repository.Create",
		trace.WithAttributes(attribute.String("cart.id", cart.ID)),
	)
	err := r.next.Create(ctx, cart)
	finish(span, err)
	return err
}

func (r *TracingCartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "cart.repository.FindByID",
		trace.WithAttributes(attribute.String("cart.id", id)),
	)
	cart, err := r.next.FindByID(ctx, id)
	if err == nil {
		span.SetAttributes(attribute.Int("cart.lines", len(cart.Products)))
	}
	finish(span, err)
	return cart, err
}

func (r *TracingCartRepository) FindAll(ctx context.Context, limit int) ([]domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "cart.repository.FindAll",
		trace.WithAttributes(attribute.Int("query.limit", limit)),
	)
	carts, err := r.next.FindAll(ctx, limit)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(carts)))
	}
	finish(span, err)
	return carts, err
}

func (r *TracingCartRepository) Mutate(ctx context.Context, id string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "cart.repository.Mutate",
		trace.WithAttributes(attribute.String("cart.id", id)),
	)
	cart, err := r.next.Mutate(ctx, id, apply)
	finish(span, err)
	return cart, err
}

func (r *TracingCartRepository) Delete(ctx context.Context, id string) (*domain.Cart, error) {
	ctx, span := tracer.Start(ctx, "cart.repository.Delete",
		trace.WithAttributes(attribute.String("cart.id", id)),
	)
	cart, err := r.next.Delete(ctx, id)
	finish(span, err)
	return cart, err
}
