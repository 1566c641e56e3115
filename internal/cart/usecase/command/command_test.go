package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tair/shop-backend/internal/cart/client"
	"github.com/tair/shop-backend/internal/cart/domain"
	cartrepo "github.com/tair/shop-backend/internal/cart/repository"
	catalogdomain "github.com/tair/shop-backend/internal/catalog/domain"
	catalogrepo "github.com/tair/shop-backend/internal/catalog/repository"
)

var _ domain.CartRepository = (*mockCartRepository)(nil)

type mockCartRepository struct {
	carts     []domain.Cart
	mutateErr error
}

func (m *mockCartRepository) indexOf(id string) int {
	for i := range m.carts {
		if m.carts[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *mockCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	m.carts = append(m.carts, *cart)
	return nil
}

func (m *mockCartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}
	c := m.carts[i]
	c.Products = append([]domain.LineItem(nil), c.Products...)
	return &c, nil
}

func (m *mockCartRepository) FindAll(ctx context.Context, limit int) ([]domain.Cart, error) {
	out := make([]domain.Cart, len(m.carts))
	copy(out, m.carts)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCartRepository) Mutate(ctx context.Context, id string, apply func(*domain.Cart) error) (*domain.Cart, error) {
	if m.mutateErr != nil {
		return nil, m.mutateErr
	}
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}
	cart := m.carts[i]
	cart.Products = append([]domain.LineItem(nil), cart.Products...)
	if err := apply(&cart); err != nil {
		return nil, err
	}
	cart.UpdatedAt = time.Now()
	m.carts[i] = cart
	out := cart
	out.Products = append([]domain.LineItem(nil), cart.Products...)
	return &out, nil
}

func (m *mockCartRepository) Delete(ctx context.Context, id string) (*domain.Cart, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}
	removed := m.carts[i]
	m.carts = append(m.carts[:i], m.carts[i+1:]...)
	return &removed, nil
}

var _ domain.StockCoordinator = (*mockStockCoordinator)(nil)

// mockStockCoordinator keeps available stock per product and fails like the
// catalog does: Reserve is an atomic check-and-decrement, unknown products
// surface ErrProductNotFound.
type mockStockCoordinator struct {
	stock       map[string]int
	releaseErrs map[string]error
}

func newMockStock(stock map[string]int) *mockStockCoordinator {
	return &mockStockCoordinator{stock: stock, releaseErrs: map[string]error{}}
}

func (m *mockStockCoordinator) HasStock(ctx context.Context, productID string, quantity int) (bool, error) {
	available, ok := m.stock[productID]
	if !ok {
		return false, fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, productID)
	}
	return available >= quantity, nil
}

func (m *mockStockCoordinator) Reserve(ctx context.Context, productID string, quantity int) error {
	available, ok := m.stock[productID]
	if !ok {
		return fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, productID)
	}
	if available < quantity {
		return fmt.Errorf("%w: product %s has %d, requested %d",
			catalogdomain.ErrInsufficientStock, productID, available, quantity)
	}
	m.stock[productID] = available - quantity
	return nil
}

func (m *mockStockCoordinator) Release(ctx context.Context, productID string, quantity int) error {
	if err := m.releaseErrs[productID]; err != nil {
		return err
	}
	available, ok := m.stock[productID]
	if !ok {
		return fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, productID)
	}
	m.stock[productID] = available + quantity
	return nil
}

func cartWith(id string, lines ...domain.LineItem) *mockCartRepository {
	if lines == nil {
		lines = []domain.LineItem{}
	}
	now := time.Now()
	return &mockCartRepository{carts: []domain.Cart{{
		ID: id, Products: lines, CreatedAt: now, UpdatedAt: now,
	}}}
}

func TestCreateCart(t *testing.T) {
	repo := &mockCartRepository{}
	handler := NewCreateCartHandler(repo)

	cart, err := handler.Handle(context.Background(), CreateCartCommand{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if cart.ID == "" {
		t.Fatal("expected generated id")
	}
	if cart.Products == nil || len(cart.Products) != 0 {
		t.Fatalf("expected empty line list, got %+v", cart.Products)
	}
	if len(repo.carts) != 1 {
		t.Fatalf("expected 1 stored cart, got %d", len(repo.carts))
	}
}

func TestAddItemReservesStock(t *testing.T) {
	repo := cartWith("c1")
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewAddItemHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 3})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(cart.Products) != 1 || cart.Products[0].Quantity != 3 {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if stock.stock["p1"] != 2 {
		t.Fatalf("expected available stock 2, got %d", stock.stock["p1"])
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 2})
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewAddItemHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 1})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(cart.Products) != 1 || cart.Products[0].Quantity != 3 {
		t.Fatalf("expected one merged line with quantity 3, got %+v", cart.Products)
	}
	if stock.stock["p1"] != 4 {
		t.Fatalf("expected available stock 4, got %d", stock.stock["p1"])
	}
}

func TestAddItemInsufficientStockLeavesBothStoresUnchanged(t *testing.T) {
	repo := cartWith("c1")
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewAddItemHandler(repo, stock)
	ctx := context.Background()

	if _, err := handler.Handle(ctx, AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 3}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err := handler.Handle(ctx, AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 3})
	if !errors.Is(err, catalogdomain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	cart, _ := repo.FindByID(ctx, "c1")
	if cart.Products[0].Quantity != 3 {
		t.Fatalf("cart changed after rejected add: %+v", cart.Products)
	}
	if stock.stock["p1"] != 2 {
		t.Fatalf("stock changed after rejected add: %d", stock.stock["p1"])
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	repo := cartWith("c1")
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewAddItemHandler(repo, stock)

	for _, qty := range []int{0, -2} {
		_, err := handler.Handle(context.Background(), AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: qty})
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if stock.stock["p1"] != 5 {
		t.Fatalf("rejected add touched stock: %d", stock.stock["p1"])
	}
}

func TestAddItemMissingCartDoesNotTouchStock(t *testing.T) {
	repo := &mockCartRepository{}
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewAddItemHandler(repo, stock)

	_, err := handler.Handle(context.Background(), AddItemCommand{CartID: "missing", ProductID: "p1", Quantity: 1})
	if !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
	if stock.stock["p1"] != 5 {
		t.Fatalf("missing cart still reserved stock: %d", stock.stock["p1"])
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	repo := cartWith("c1")
	stock := newMockStock(map[string]int{})
	handler := NewAddItemHandler(repo, stock)

	_, err := handler.Handle(context.Background(), AddItemCommand{CartID: "c1", ProductID: "ghost", Quantity: 1})
	if !errors.Is(err, catalogdomain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddItemRollsBackReservationOnCartWriteFailure(t *testing.T) {
	repo := cartWith("c1")
	repo.mutateErr = errors.New("disk full")
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewAddItemHandler(repo, stock)

	_, err := handler.Handle(context.Background(), AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 3})
	if err == nil {
		t.Fatal("expected cart write failure")
	}
	if stock.stock["p1"] != 5 {
		t.Fatalf("reservation not rolled back: %d", stock.stock["p1"])
	}
}

func TestRemoveItemReleasesStock(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 3})
	stock := newMockStock(map[string]int{"p1": 2})
	handler := NewRemoveItemHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), RemoveItemCommand{CartID: "c1", ProductID: "p1"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(cart.Products) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Products)
	}
	if stock.stock["p1"] != 5 {
		t.Fatalf("expected stock restored to 5, got %d", stock.stock["p1"])
	}
}

func TestRemoveItemMissingLine(t *testing.T) {
	repo := cartWith("c1")
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewRemoveItemHandler(repo, stock)

	_, err := handler.Handle(context.Background(), RemoveItemCommand{CartID: "c1", ProductID: "p1"})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveItemDropsReservationForDeletedProduct(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "gone", Quantity: 2})
	stock := newMockStock(map[string]int{})
	handler := NewRemoveItemHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), RemoveItemCommand{CartID: "c1", ProductID: "gone"})
	if err != nil {
		t.Fatalf("expected removal to tolerate a deleted product, got %v", err)
	}
	if len(cart.Products) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Products)
	}
}

func TestSetQuantityReservesDelta(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 2})
	stock := newMockStock(map[string]int{"p1": 3})
	handler := NewSetQuantityHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: 4})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if cart.Products[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", cart.Products[0].Quantity)
	}
	if stock.stock["p1"] != 1 {
		t.Fatalf("expected stock 1, got %d", stock.stock["p1"])
	}
}

func TestSetQuantityReleasesDelta(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 4})
	stock := newMockStock(map[string]int{"p1": 0})
	handler := NewSetQuantityHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: 1})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if cart.Products[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", cart.Products[0].Quantity)
	}
	if stock.stock["p1"] != 3 {
		t.Fatalf("expected stock 3, got %d", stock.stock["p1"])
	}
}

func TestSetQuantityInsufficientStock(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 2})
	stock := newMockStock(map[string]int{"p1": 1})
	handler := NewSetQuantityHandler(repo, stock)
	ctx := context.Background()

	_, err := handler.Handle(ctx, SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: 5})
	if !errors.Is(err, catalogdomain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	cart, _ := repo.FindByID(ctx, "c1")
	if cart.Products[0].Quantity != 2 {
		t.Fatalf("cart changed after rejected update: %+v", cart.Products)
	}
	if stock.stock["p1"] != 1 {
		t.Fatalf("stock changed after rejected update: %d", stock.stock["p1"])
	}
}

func TestSetQuantityRejectsNonPositive(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 2})
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewSetQuantityHandler(repo, stock)

	for _, qty := range []int{0, -1} {
		_, err := handler.Handle(context.Background(), SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: qty})
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestSetQuantityMissingLine(t *testing.T) {
	repo := cartWith("c1")
	stock := newMockStock(map[string]int{"p1": 5})
	handler := NewSetQuantityHandler(repo, stock)

	_, err := handler.Handle(context.Background(), SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: 2})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if stock.stock["p1"] != 5 {
		t.Fatalf("missing line still touched stock: %d", stock.stock["p1"])
	}
}

func TestClearCartReleasesAllLines(t *testing.T) {
	repo := cartWith("c1",
		domain.LineItem{ProductID: "p1", Quantity: 2},
		domain.LineItem{ProductID: "p2", Quantity: 3},
	)
	stock := newMockStock(map[string]int{"p1": 0, "p2": 1})
	handler := NewClearCartHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), ClearCartCommand{CartID: "c1"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(cart.Products) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Products)
	}
	if stock.stock["p1"] != 2 || stock.stock["p2"] != 4 {
		t.Fatalf("stock not fully released: %+v", stock.stock)
	}
}

func TestClearCartContinuesPastFailedRelease(t *testing.T) {
	repo := cartWith("c1",
		domain.LineItem{ProductID: "p1", Quantity: 2},
		domain.LineItem{ProductID: "p2", Quantity: 3},
	)
	stock := newMockStock(map[string]int{"p1": 0, "p2": 0})
	stock.releaseErrs["p1"] = errors.New("catalog unavailable")
	handler := NewClearCartHandler(repo, stock)

	cart, err := handler.Handle(context.Background(), ClearCartCommand{CartID: "c1"})
	if err != nil {
		t.Fatalf("expected clear to survive a failed release, got %v", err)
	}
	if len(cart.Products) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Products)
	}
	if stock.stock["p2"] != 3 {
		t.Fatalf("expected p2 released despite p1 failure, got %d", stock.stock["p2"])
	}
}

func TestDeleteCartReleasesStockAndRemovesCart(t *testing.T) {
	repo := cartWith("c1", domain.LineItem{ProductID: "p1", Quantity: 2})
	stock := newMockStock(map[string]int{"p1": 1})
	handler := NewDeleteCartHandler(repo, stock)
	ctx := context.Background()

	if err := handler.Handle(ctx, DeleteCartCommand{CartID: "c1"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if stock.stock["p1"] != 3 {
		t.Fatalf("expected stock 3, got %d", stock.stock["p1"])
	}
	if _, err := repo.FindByID(ctx, "c1"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected cart to be gone, got %v", err)
	}
}

func TestDeleteCartProceedsPastFailedRelease(t *testing.T) {
	repo := cartWith("c1",
		domain.LineItem{ProductID: "p1", Quantity: 2},
		domain.LineItem{ProductID: "p2", Quantity: 1},
	)
	stock := newMockStock(map[string]int{"p1": 0, "p2": 0})
	stock.releaseErrs["p2"] = errors.New("catalog unavailable")
	handler := NewDeleteCartHandler(repo, stock)
	ctx := context.Background()

	if err := handler.Handle(ctx, DeleteCartCommand{CartID: "c1"}); err != nil {
		t.Fatalf("expected deletion to survive a failed release, got %v", err)
	}
	if stock.stock["p1"] != 2 {
		t.Fatalf("expected p1 released, got %d", stock.stock["p1"])
	}
	if _, err := repo.FindByID(ctx, "c1"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected cart to be gone, got %v", err)
	}
}

func TestDeleteCartNotFound(t *testing.T) {
	handler := NewDeleteCartHandler(&mockCartRepository{}, newMockStock(map[string]int{}))

	err := handler.Handle(context.Background(), DeleteCartCommand{CartID: "missing"})
	if !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

// newFileBackend seeds real file-backed stores with one product ("p1",
// the given available stock) and one cart ("c1", the given lines).
func newFileBackend(t *testing.T, stock int, lines ...domain.LineItem) (*cartrepo.FileCartRepository, *catalogrepo.FileProductRepository) {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	products, err := catalogrepo.NewFileProductRepository(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("NewFileProductRepository: %v", err)
	}
	carts, err := cartrepo.NewFileCartRepository(filepath.Join(dir, "carts.json"))
	if err != nil {
		t.Fatalf("NewFileCartRepository: %v", err)
	}

	if err := products.Create(ctx, &catalogdomain.Product{
		ID: "p1", Title: "Widget", Code: "WID-001", Price: 9.99, Status: true, Stock: stock,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if lines == nil {
		lines = []domain.LineItem{}
	}
	now := time.Now()
	if err := carts.Create(ctx, &domain.Cart{ID: "c1", Products: lines, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return carts, products
}

// gatedCoordinator parks the first Reserve call until the gate opens, holding
// a window open for a competing command to run against the same line.
type gatedCoordinator struct {
	domain.StockCoordinator
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (g *gatedCoordinator) Reserve(ctx context.Context, productID string, quantity int) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.gate
	})
	return g.StockCoordinator.Reserve(ctx, productID, quantity)
}

func TestSetQuantityHoldsLineAcrossStockAdjustment(t *testing.T) {
	// 10 available + 2 on the line: 12 units total, before and after.
	carts, products := newFileBackend(t, 10, domain.LineItem{ProductID: "p1", Quantity: 2})
	base := client.NewCatalogClient(products)
	gated := &gatedCoordinator{
		StockCoordinator: base,
		entered:          make(chan struct{}),
		gate:             make(chan struct{}),
	}
	setHandler := NewSetQuantityHandler(carts, gated)
	addHandler := NewAddItemHandler(carts, base)
	ctx := context.Background()

	var wg sync.WaitGroup
	var setErr, addErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, setErr = setHandler.Handle(ctx, SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: 5})
	}()
	<-gated.entered

	// The update is parked mid-adjustment; the competing add must wait for
	// it rather than read the line it is about to rewrite.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, addErr = addHandler.Handle(ctx, AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 2})
	}()
	time.Sleep(50 * time.Millisecond)
	close(gated.gate)
	wg.Wait()

	if setErr != nil {
		t.Fatalf("set quantity: %v", setErr)
	}
	if addErr != nil {
		t.Fatalf("add item: %v", addErr)
	}

	product, err := products.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID product: %v", err)
	}
	cart, err := carts.FindByID(ctx, "c1")
	if err != nil {
		t.Fatalf("FindByID cart: %v", err)
	}
	if got := product.Stock + cart.TotalQuantity(); got != 12 {
		t.Fatalf("units leaked: stock=%d line=%d sum=%d, want 12",
			product.Stock, cart.TotalQuantity(), got)
	}
	if cart.TotalQuantity() != 7 {
		t.Fatalf("expected line quantity 7 (set to 5, then +2), got %d", cart.TotalQuantity())
	}
}

func TestConcurrentCartCommandsConserveUnits(t *testing.T) {
	carts, products := newFileBackend(t, 40)
	coordinator := client.NewCatalogClient(products)
	add := NewAddItemHandler(carts, coordinator)
	set := NewSetQuantityHandler(carts, coordinator)
	remove := NewRemoveItemHandler(carts, coordinator)
	ctx := context.Background()

	// Individual commands may fail (missing line, rejected reservation);
	// the total of available and reserved units must never drift.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = add.Handle(ctx, AddItemCommand{CartID: "c1", ProductID: "p1", Quantity: 1})
		}()
		go func() {
			defer wg.Done()
			_, _ = set.Handle(ctx, SetQuantityCommand{CartID: "c1", ProductID: "p1", Quantity: 3})
		}()
		go func() {
			defer wg.Done()
			_, _ = remove.Handle(ctx, RemoveItemCommand{CartID: "c1", ProductID: "p1"})
		}()
	}
	wg.Wait()

	product, err := products.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID product: %v", err)
	}
	cart, err := carts.FindByID(ctx, "c1")
	if err != nil {
		t.Fatalf("FindByID cart: %v", err)
	}
	if got := product.Stock + cart.TotalQuantity(); got != 40 {
		t.Fatalf("units leaked: stock=%d line=%d sum=%d, want 40",
			product.Stock, cart.TotalQuantity(), got)
	}
}
