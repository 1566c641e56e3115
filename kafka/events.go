package kafka

import (
	"time"

	"github.com/tair/shop-backend/internal/catalog/domain"
)

// ProductEvent announces a catalog change together with the updated snapshot
// of the product list.
type ProductEvent struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Product   *domain.Product  `json:"product,omitempty"`
	Products  []domain.Product `json:"products"`
	Timestamp time.Time        `json:"timestamp"`
}

// Event types
const (
	EventTypeProductAdded    = "productAdded"
	EventTypeProductDeleted  = "productDeleted"
	EventTypeProductsUpdated = "productsUpdated"
)

// Kafka topics
const (
	TopicProductEvents = "product-events"
)
