//go:build wireinject
// +build wireinject

package cart

import (
	"github.com/google/wire"

	"github.com/tair/shop-backend/internal/cart/client"
	"github.com/tair/shop-backend/internal/cart/delivery/http"
	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/internal/cart/usecase/command"
	"github.com/tair/shop-backend/internal/cart/usecase/query"
	catalogdomain "github.com/tair/shop-backend/internal/catalog/domain"
)

// CoordinatorSet binds the stock coordinator contract to the in-process
// catalog client.
var CoordinatorSet = wire.NewSet(
	client.NewCatalogClient,
	wire.Bind(new(domain.StockCoordinator), new(*client.CatalogClient)),
)

// HandlerSet wires the CQRS handlers of the cart service
var HandlerSet = wire.NewSet(
	command.NewCreateCartHandler,
	command.NewAddItemHandler,
	command.NewRemoveItemHandler,
	command.NewSetQuantityHandler,
	command.NewClearCartHandler,
	command.NewDeleteCartHandler,
	query.NewGetCartHandler,
	query.NewListCartsHandler,
)

// InitializeHTTPHandler initializes the cart HTTP handler with all
// dependencies. The product repository is the same instance the catalog
// service uses, so stock reservations land on the shared document.
func InitializeHTTPHandler(carts domain.CartRepository, products catalogdomain.ProductRepository) (*http.CartHandler, error) {
	wire.Build(
		CoordinatorSet,
		HandlerSet,
		http.NewCartHandlerWithDI,
	)
	return nil, nil
}
