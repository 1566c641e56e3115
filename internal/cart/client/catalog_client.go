package client

import (
	"context"

	catalogdomain "github.com/tair/shop-backend/internal/catalog/domain"
)

// CatalogClient is the cart side's in-process client for the catalog store.
// It implements the stock coordinator contract: every reservation is an
// atomic check-and-decrement inside the catalog, so cart operations never
// race between a stock check and the matching mutation.
type CatalogClient struct {
	products catalogdomain.ProductRepository
}

// NewCatalogClient creates a catalog client backed by the shared repository.
func NewCatalogClient(products catalogdomain.ProductRepository) *CatalogClient {
	return &CatalogClient{products: products}
}

// HasStock reports whether the product has at least quantity units available.
func (c *CatalogClient) HasStock(ctx context.Context, productID string, quantity int) (bool, error) {
	return c.products.HasStock(ctx, productID, quantity)
}

// Reserve takes quantity units out of available stock. Fails when the
// product is missing or has fewer than quantity units.
func (c *CatalogClient) Reserve(ctx context.Context, productID string, quantity int) error {
	_, err := c.products.AdjustStock(ctx, productID, quantity, catalogdomain.StockDecrement)
	return err
}

// Release returns quantity previously reserved units to available stock.
func (c *CatalogClient) Release(ctx context.Context, productID string, quantity int) error {
	_, err := c.products.AdjustStock(ctx, productID, quantity, catalogdomain.StockIncrement)
	return err
}
