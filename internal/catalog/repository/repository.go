package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tair/shop-backend/internal/catalog/domain"
	"github.com/tair/shop-backend/pkg/storage"
)

// FileProductRepository persists the whole product collection as one JSON
// document. A single mutex scopes every load-mutate-save sequence, so each
// public method is one atomic unit from the caller's perspective.
type FileProductRepository struct {
	mu       sync.Mutex
	doc      *storage.Document
	products []domain.Product
	reload   bool
}

// Option configures a FileProductRepository.
type Option func(*FileProductRepository)

// WithTrustedCache keeps the in-memory snapshot between calls instead of
// re-reading the document on every operation. Only safe while this process
// is the sole writer of the file.
func WithTrustedCache() Option {
	return func(r *FileProductRepository) { r.reload = false }
}

// NewFileProductRepository opens (or creates) the product document at path.
func NewFileProductRepository(path string, opts ...Option) (*FileProductRepository, error) {
	doc, err := storage.NewDocument(path)
	if err != nil {
		return nil, err
	}

	r := &FileProductRepository{doc: doc, reload: true}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.doc.Load(&r.products); err != nil {
		return nil, err
	}
	return r, nil
}

// Ping verifies the backing document is still readable.
func (r *FileProductRepository) Ping() error {
	var probe []domain.Product
	return r.doc.Load(&probe)
}

func (r *FileProductRepository) load() error {
	if !r.reload {
		return nil
	}
	return r.doc.Load(&r.products)
}

func (r *FileProductRepository) persist() error {
	return r.doc.Store(r.products)
}

func (r *FileProductRepository) indexOf(id string) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *FileProductRepository) codeTaken(code, excludeID string) bool {
	for i := range r.products {
		if r.products[i].Code == code && r.products[i].ID != excludeID {
			return true
		}
	}
	return false
}

func (r *FileProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return err
	}
	if r.codeTaken(product.Code, product.ID) {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateCode, product.Code)
	}

	r.products = append(r.products, *product)
	if err := r.persist(); err != nil {
		return err
	}
	return nil
}

func (r *FileProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	p := r.products[i]
	return &p, nil
}

func (r *FileProductRepository) FindAll(ctx context.Context, limit int) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *FileProductRepository) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return false, err
	}
	return r.codeTaken(code, excludeID), nil
}

func (r *FileProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	if patch.Code != nil && *patch.Code != r.products[i].Code && r.codeTaken(*patch.Code, id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateCode, *patch.Code)
	}

	p := &r.products[i]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Thumbnails != nil {
		p.Thumbnails = *patch.Thumbnails
	}
	p.UpdatedAt = time.Now()

	if err := r.persist(); err != nil {
		return nil, err
	}
	out := *p
	return &out, nil
}

func (r *FileProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	removed := r.products[i]
	r.products = append(r.products[:i], r.products[i+1:]...)
	if err := r.persist(); err != nil {
		return nil, err
	}
	return &removed, nil
}

func (r *FileProductRepository) HasStock(ctx context.Context, id string, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return false, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return r.products[i].Stock >= quantity, nil
}

// AdjustStock is the single mutation path for stock. The availability check
// and the decrement happen under the same lock acquisition, so no caller can
// observe stale stock between them.
func (r *FileProductRepository) AdjustStock(ctx context.Context, id string, quantity int, direction domain.StockDirection) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	p := &r.products[i]
	switch direction {
	case domain.StockDecrement:
		if p.Stock < quantity {
			return nil, fmt.Errorf("%w: product %s has %d, requested %d",
				domain.ErrInsufficientStock, id, p.Stock, quantity)
		}
		p.Stock -= quantity
	case domain.StockIncrement:
		p.Stock += quantity
	default:
		return nil, fmt.Errorf("%w: unknown stock direction %q", domain.ErrInvalidProduct, direction)
	}
	p.UpdatedAt = time.Now()

	if err := r.persist(); err != nil {
		return nil, err
	}
	out := *p
	return &out, nil
}

func (r *FileProductRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return 0, err
	}
	return int64(len(r.products)), nil
}
