package query

import (
	"context"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// CatalogStats summarizes the catalog
type CatalogStats struct {
	TotalProducts int64          `json:"total_products"`
	TotalStock    int            `json:"total_stock"`
	ActiveCount   int            `json:"active_count"`
	ByCategory    map[string]int `json:"by_category"`
}

// GetStatsQuery represents the query for catalog statistics
type GetStatsQuery struct{}

// GetStatsHandler handles stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*CatalogStats, error) {
	products, err := h.repo.FindAll(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &CatalogStats{
		TotalProducts: int64(len(products)),
		ByCategory:    make(map[string]int),
	}
	for i := range products {
		stats.TotalStock += products[i].Stock
		if products[i].Status {
			stats.ActiveCount++
		}
		stats.ByCategory[products[i].Category]++
	}
	return stats, nil
}
