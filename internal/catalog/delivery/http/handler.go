package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/shop-backend/internal/catalog/domain"
	"github.com/tair/shop-backend/internal/catalog/usecase/command"
	"github.com/tair/shop-backend/internal/catalog/usecase/query"
	"github.com/tair/shop-backend/kafka"
	"github.com/tair/shop-backend/pkg/logger"
	"github.com/tair/shop-backend/pkg/storage"
)

// Notifier broadcasts catalog change events after a successful mutation.
// Delivery is fire-and-forget; the mutation never depends on it succeeding.
type Notifier interface {
	PublishProductEvent(ctx context.Context, event kafka.ProductEvent) error
}

// ProductHandler handles HTTP requests for the catalog using CQRS pattern
type ProductHandler struct {
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler
	adjustHandler *command.AdjustStockHandler

	getHandler   *query.GetProductHandler
	listHandler  *query.ListProductsHandler
	statsHandler *query.GetStatsHandler

	repo     domain.ProductRepository
	notifier Notifier
}

var (
	registerMetricsOnce sync.Once

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
)

func registerMetrics() {
	registerMetricsOnce.Do(func() {
		requestCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_service_requests_total",
				Help: "Total number of requests to the catalog service",
			},
			[]string{"method", "endpoint", "status"},
		)

		requestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_service_request_duration_seconds",
				Help:    "Duration of catalog service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		)

		// Summary metric for percentile calculation (p50, p90, p95, p99)
		requestSummary = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "catalog_service_request_duration_summary",
				Help: "Summary of request durations with percentiles (client-side quantiles)",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		)

		totalProducts = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_service_total_products",
				Help: "Total number of products in the catalog",
			},
		)

		prometheus.MustRegister(requestCounter)
		prometheus.MustRegister(requestLatency)
		prometheus.MustRegister(requestSummary)
		prometheus.MustRegister(totalProducts)
	})
}

// NewProductHandler creates a new catalog handler (manual DI)
func NewProductHandler(repo domain.ProductRepository, notifier Notifier) *ProductHandler {
	return NewProductHandlerWithDI(
		command.NewCreateProductHandler(repo),
		command.NewUpdateProductHandler(repo),
		command.NewDeleteProductHandler(repo),
		command.NewAdjustStockHandler(repo),
		query.NewGetProductHandler(repo),
		query.NewListProductsHandler(repo),
		query.NewGetStatsHandler(repo),
		repo,
		notifier,
	)
}

// NewProductHandlerWithDI creates a new catalog handler using dependency
// injection. This is used by Wire.
func NewProductHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	adjustHandler *command.AdjustStockHandler,
	getHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
	repo domain.ProductRepository,
	notifier Notifier,
) *ProductHandler {
	registerMetrics()

	return &ProductHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		adjustHandler: adjustHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		statsHandler:  statsHandler,
		repo:          repo,
		notifier:      notifier,
	}
}

// Response is the JSON envelope shared by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes wires the catalog endpoints onto the router
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/stats", metricsMiddleware("/api/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/products/{pid}", metricsMiddleware("/api/products/{pid}", h.GetProduct)).Methods("GET")

	router.HandleFunc("/api/products", metricsMiddleware("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{pid}", metricsMiddleware("/api/products/{pid}", h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{pid}", metricsMiddleware("/api/products/{pid}", h.DeleteProduct)).Methods("DELETE")
	router.HandleFunc("/api/products/{pid}/stock", metricsMiddleware("/api/products/{pid}/stock", h.AdjustStock)).Methods("PATCH")
}

type productRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Status      *bool    `json:"status"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.CreateProductCommand{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Price:       req.Price,
		Status:      req.Status,
		Stock:       req.Stock,
		Category:    req.Category,
		Thumbnails:  req.Thumbnails,
	}

	product, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		respondError(w, err)
		return
	}

	h.updateProductsMetric(r.Context())
	h.broadcast(r.Context(), kafka.EventTypeProductAdded, product)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondError(w, err)
		return
	}

	count, _ := h.repo.Count(r.Context())

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": products,
			"total":    count,
			"limit":    limit,
		},
	})
}

// GetProduct handles GET /api/products/{pid}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	pid := mux.Vars(r)["pid"]

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: pid})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/products/{pid}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	pid := mux.Vars(r)["pid"]

	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{ID: pid, Patch: patch})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", pid).Msg("Failed to update product")
		respondError(w, err)
		return
	}

	h.broadcast(r.Context(), kafka.EventTypeProductsUpdated, product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct handles DELETE /api/products/{pid}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	pid := mux.Vars(r)["pid"]

	product, err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: pid})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", pid).Msg("Failed to delete product")
		respondError(w, err)
		return
	}

	h.updateProductsMetric(r.Context())
	h.broadcast(r.Context(), kafka.EventTypeProductDeleted, product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
		Data:    product,
	})
}

// AdjustStock handles PATCH /api/products/{pid}/stock
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	pid := mux.Vars(r)["pid"]

	var req struct {
		Quantity  int    `json:"quantity"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.AdjustStockCommand{
		ProductID: pid,
		Quantity:  req.Quantity,
		Direction: domain.StockDirection(req.Direction),
	}

	product, err := h.adjustHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("product_id", pid).Msg("Failed to adjust stock")
		respondError(w, err)
		return
	}

	h.broadcast(r.Context(), kafka.EventTypeProductsUpdated, product)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock adjusted successfully",
		Data:    product,
	})
}

// GetStats handles GET /api/products/stats
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get catalog stats")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// broadcast emits a product event with the updated snapshot without blocking
// the request and without failing it.
func (h *ProductHandler) broadcast(ctx context.Context, eventType string, product *domain.Product) {
	if h.notifier == nil {
		return
	}

	snapshot, err := h.repo.FindAll(ctx, 0)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", eventType).Msg("Skipping broadcast, snapshot read failed")
		return
	}

	event := kafka.ProductEvent{
		EventType: eventType,
		Product:   product,
		Products:  snapshot,
		Timestamp: time.Now(),
	}

	go func() {
		if err := h.notifier.PublishProductEvent(context.Background(), event); err != nil {
			logger.Logger.Warn().Err(err).Str("event_type", eventType).Msg("Product event delivery failed")
		}
	}()
}

func (h *ProductHandler) updateProductsMetric(ctx context.Context) {
	if count, err := h.repo.Count(ctx); err == nil {
		totalProducts.Set(float64(count))
	}
}

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFromError(err), Response{
		Success: false,
		Error:   err.Error(),
	})
}

// statusFromError maps the store error taxonomy to transport status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode), errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
