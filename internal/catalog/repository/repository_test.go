package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

func newTestRepo(t *testing.T) *FileProductRepository {
	t.Helper()
	repo, err := NewFileProductRepository(filepath.Join(t.TempDir(), "products.json"))
	if err != nil {
		t.Fatalf("NewFileProductRepository: %v", err)
	}
	return repo
}

func testProduct(id, code string, stock int) *domain.Product {
	now := time.Now()
	return &domain.Product{
		ID:          id,
		Title:       "Test Product " + id,
		Description: "A product used in tests",
		Code:        code,
		Price:       19.99,
		Status:      true,
		Stock:       stock,
		Category:    "test",
		Thumbnails:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 10)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Code != "CODE-1" || got.Stock != 10 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "SAME", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, testProduct("p2", "SAME", 1))
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product after rejected create, got %d", count)
	}
}

func TestUpdateRejectsCodeCollision(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "A", 1)); err != nil {
		t.Fatalf("Create p1: %v", err)
	}
	if err := repo.Create(ctx, testProduct("p2", "B", 1)); err != nil {
		t.Fatalf("Create p2: %v", err)
	}

	code := "A"
	_, err := repo.Update(ctx, "p2", domain.ProductPatch{Code: &code})
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}

	// Re-asserting a product's own code is not a collision.
	codeB := "B"
	if _, err := repo.Update(ctx, "p2", domain.ProductPatch{Code: &codeB}); err != nil {
		t.Fatalf("Update with own code: %v", err)
	}
}

func TestUpdateAppliesOnlyPatchedFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 5)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Renamed"
	price := 4.5
	got, err := repo.Update(ctx, "p1", domain.ProductPatch{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Renamed" || got.Price != 4.5 {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Code != "CODE-1" || got.Stock != 5 {
		t.Fatalf("unpatched fields changed: %+v", got)
	}
}

func TestDeleteReturnsRemovedProduct(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 5)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := repo.Delete(ctx, "p1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.ID != "p1" {
		t.Fatalf("unexpected removed product: %+v", removed)
	}

	if _, err := repo.FindByID(ctx, "p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
	if _, err := repo.Delete(ctx, "p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestFindAllLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := repo.Create(ctx, testProduct(id, "CODE-"+id, 1)); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	all, err := repo.FindAll(ctx, 0)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	limited, err := repo.FindAll(ctx, 2)
	if err != nil {
		t.Fatalf("FindAll limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 products, got %d", len(limited))
	}
}

func TestAdjustStockDecrement(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 5)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.AdjustStock(ctx, "p1", 3, domain.StockDecrement)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", got.Stock)
	}
}

func TestAdjustStockInsufficientLeavesStockUnchanged(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 2)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.AdjustStock(ctx, "p1", 3, domain.StockDecrement)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	got, err := repo.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("stock changed after rejected decrement: %d", got.Stock)
	}
}

func TestAdjustStockIncrement(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 2)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.AdjustStock(ctx, "p1", 4, domain.StockIncrement)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if got.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", got.Stock)
	}
}

func TestHasStock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 3)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repo.HasStock(ctx, "p1", 3)
	if err != nil || !ok {
		t.Fatalf("expected stock for 3 units, ok=%v err=%v", ok, err)
	}
	ok, err = repo.HasStock(ctx, "p1", 4)
	if err != nil || ok {
		t.Fatalf("expected no stock for 4 units, ok=%v err=%v", ok, err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	ctx := context.Background()

	repo, err := NewFileProductRepository(path)
	if err != nil {
		t.Fatalf("NewFileProductRepository: %v", err)
	}
	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 7)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	reopened, err := NewFileProductRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID after reopen: %v", err)
	}
	if got.Code != "CODE-1" || got.Stock != 7 {
		t.Fatalf("unexpected product after reopen: %+v", got)
	}
}

func TestConcurrentDecrementsNeverOversell(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testProduct("p1", "CODE-1", 10)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustStock(ctx, "p1", 1, domain.StockDecrement); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 10 {
		t.Fatalf("expected exactly 10 granted decrements, got %d", granted)
	}
	got, err := repo.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", got.Stock)
	}
}
