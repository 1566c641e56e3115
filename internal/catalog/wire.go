//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"

	"github.com/tair/shop-backend/internal/catalog/delivery/http"
	"github.com/tair/shop-backend/internal/catalog/domain"
	"github.com/tair/shop-backend/internal/catalog/usecase/command"
	"github.com/tair/shop-backend/internal/catalog/usecase/query"
)

// HandlerSet wires the CQRS handlers of the catalog service
var HandlerSet = wire.NewSet(
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewAdjustStockHandler,
	query.NewGetProductHandler,
	query.NewListProductsHandler,
	query.NewGetStatsHandler,
)

// InitializeHTTPHandler initializes the catalog HTTP handler with all dependencies
func InitializeHTTPHandler(repo domain.ProductRepository, notifier http.Notifier) (*http.ProductHandler, error) {
	wire.Build(
		HandlerSet,
		http.NewProductHandlerWithDI,
	)
	return nil, nil
}
