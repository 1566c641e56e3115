package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/pkg/storage"
)

// FileCartRepository persists the whole cart collection as one JSON document.
// A single mutex scopes every load-mutate-save sequence.
type FileCartRepository struct {
	mu     sync.Mutex
	doc    *storage.Document
	carts  []domain.Cart
	reload bool
}

// Option configures a FileCartRepository.
type Option func(*FileCartRepository)

// WithTrustedCache keeps the in-memory snapshot between calls instead of
// re-reading the document on every operation.
func WithTrustedCache() Option {
	return func(r *FileCartRepository) { r.reload = false }
}

// NewFileCartRepository opens (or creates) the cart document at path.
func NewFileCartRepository(path string, opts ...Option) (*FileCartRepository, error) {
	doc, err := storage.NewDocument(path)
	if err != nil {
		return nil, err
	}

	r := &FileCartRepository{doc: doc, reload: true}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.doc.Load(&r.carts); err != nil {
		return nil, err
	}
	return r, nil
}

// Ping verifies the backing document is still readable.
func (r *FileCartRepository) Ping() error {
	var probe []domain.Cart
	return r.doc.Load(&probe)
}

func (r *FileCartRepository) load() error {
	if !r.reload {
		return nil
	}
	return r.doc.Load(&r.carts)
}

func (r *FileCartRepository) indexOf(id string) int {
	for i := range r.carts {
		if r.carts[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *FileCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return err
	}
	r.carts = append(r.carts, *cart)
	return r.doc.Store(r.carts)
}

func (r *FileCartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}
	c := cloneCart(r.carts[i])
	return &c, nil
}

func (r *FileCartRepository) FindAll(ctx context.Context, limit int) ([]domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	out := make([]domain.Cart, 0, len(r.carts))
	for i := range r.carts {
		out = append(out, cloneCart(r.carts[i]))
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Mutate applies a change to one cart atomically. The callback sees a copy;
// the document is rewritten only when the callback succeeds.
func (r *FileCartRepository) Mutate(ctx context.Context, id string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}

	cart := cloneCart(r.carts[i])
	if err := apply(&cart); err != nil {
		return nil, err
	}
	cart.UpdatedAt = time.Now()

	r.carts[i] = cart
	if err := r.doc.Store(r.carts); err != nil {
		return nil, err
	}
	out := cloneCart(cart)
	return &out, nil
}

func (r *FileCartRepository) Delete(ctx context.Context, id string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}

	removed := cloneCart(r.carts[i])
	r.carts = append(r.carts[:i], r.carts[i+1:]...)
	if err := r.doc.Store(r.carts); err != nil {
		return nil, err
	}
	return &removed, nil
}

func cloneCart(c domain.Cart) domain.Cart {
	out := c
	out.Products = make([]domain.LineItem, len(c.Products))
	copy(out.Products, c.Products)
	return out
}
