package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracingProductRepository wraps a ProductRepository with tracing spans.
type TracingProductRepository struct {
	next domain.ProductRepository
}

// NewTracingProductRepository creates a repository decorator that records one
// span per store operation.
func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

func (r *TracingProductRepository) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.span(ctx, "catalog.repository.Create",
		attribute.String("product.code", product.Code),
		attribute.String("product.category", product.Category),
	)
	err := r.next.Create(ctx, product)
	if err == nil {
		span.SetAttributes(attribute.String("product.id", product.ID))
	}
	finish(span, err)
	return err
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.span(ctx, "catalog.repository.FindByID",
		attribute.String("product.id", id),
	)
	product, err := r.next.FindByID(ctx, id)
	finish(span, err)
	return product, err
}

func (r *TracingProductRepository) FindAll(ctx context.Context, limit int) ([]domain.Product, error) {
	ctx, span := r.span(ctx, "catalog.repository.FindAll",
		attribute.Int("query.limit", limit),
	)
	products, err := r.next.FindAll(ctx, limit)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(products)))
	}
	finish(span, err)
	return products, err
}

func (r *TracingProductRepository) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	ctx, span := r.span(ctx, "catalog.repository.CodeExists",
		attribute.String("product.code", code),
	)
	exists, err := r.next.CodeExists(ctx, code, excludeID)
	finish(span, err)
	return exists, err
}

func (r *TracingProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	ctx, span := r.span(ctx, "catalog.repository.Update",
		attribute.String("product.id", id),
	)
	product, err := r.next.Update(ctx, id, patch)
	finish(span, err)
	return product, err
}

func (r *TracingProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.span(ctx, "catalog.repository.Delete",
		attribute.String("product.id", id),
	)
	product, err := r.next.Delete(ctx, id)
	finish(span, err)
	return product, err
}

func (r *TracingProductRepository) HasStock(ctx context.Context, id string, quantity int) (bool, error) {
	ctx, span := r.span(ctx, "catalog.repository.HasStock",
		attribute.String("product.id", id),
		attribute.Int("stock.quantity", quantity),
	)
	ok, err := r.next.HasStock(ctx, id, quantity)
	finish(span, err)
	return ok, err
}

func (r *TracingProductRepository) AdjustStock(ctx context.Context, id string, quantity int, direction domain.StockDirection) (*domain.Product, error) {
	ctx, span := r.span(ctx, "catalog.repository.AdjustStock",
		attribute.String("product.id", id),
		attribute.Int("stock.quantity", quantity),
		attribute.String("stock.direction", string(direction)),
	)
	product, err := r.next.AdjustStock(ctx, id, quantity, direction)
	if err == nil {
		span.SetAttributes(attribute.Int("stock.remaining", product.Stock))
	}
	finish(span, err)
	return product, err
}

func (r *TracingProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.span(ctx, "catalog.repository.Count")
	count, err := r.next.Count(ctx)
	finish(span, err)
	return count, err
}
