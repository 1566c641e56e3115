package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/shop-backend/internal/cart/domain"
	"github.com/tair/shop-backend/internal/cart/usecase/command"
	"github.com/tair/shop-backend/internal/cart/usecase/query"
	catalogdomain "github.com/tair/shop-backend/internal/catalog/domain"
	"github.com/tair/shop-backend/pkg/logger"
	"github.com/tair/shop-backend/pkg/storage"
)

// CartHandler handles HTTP requests for carts using CQRS pattern
type CartHandler struct {
	createHandler      *command.CreateCartHandler
	addItemHandler     *command.AddItemHandler
	removeItemHandler  *command.RemoveItemHandler
	setQuantityHandler *command.SetQuantityHandler
	clearHandler       *command.ClearCartHandler
	deleteHandler      *command.DeleteCartHandler

	getHandler  *query.GetCartHandler
	listHandler *query.ListCartsHandler
}

var (
	registerMetricsOnce sync.Once

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
)

func registerMetrics() {
	registerMetricsOnce.Do(func() {
		requestCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_service_requests_total",
				Help: "Total number of requests to the cart service",
			},
			[]string{"method", "endpoint", "status"},
		)

		requestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cart_service_request_duration_seconds",
				Help:    "Duration of cart service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		)

		prometheus.MustRegister(requestCounter)
		prometheus.MustRegister(requestLatency)
	})
}

// NewCartHandler creates a new cart handler (manual DI)
func NewCartHandler(repo domain.CartRepository, stock domain.StockCoordinator) *CartHandler {
	return NewCartHandlerWithDI(
		command.NewCreateCartHandler(repo),
		command.NewAddItemHandler(repo, stock),
		command.NewRemoveItemHandler(repo, stock),
		command.NewSetQuantityHandler(repo, stock),
		command.NewClearCartHandler(repo, stock),
		command.NewDeleteCartHandler(repo, stock),
		query.NewGetCartHandler(repo),
		query.NewListCartsHandler(repo),
	)
}

// NewCartHandlerWithDI creates a new cart handler using dependency injection.
// This is used by Wire.
func NewCartHandlerWithDI(
	createHandler *command.CreateCartHandler,
	addItemHandler *command.AddItemHandler,
	removeItemHandler *command.RemoveItemHandler,
	setQuantityHandler *command.SetQuantityHandler,
	clearHandler *command.ClearCartHandler,
	deleteHandler *command.DeleteCartHandler,
	getHandler *query.GetCartHandler,
	listHandler *query.ListCartsHandler,
) *CartHandler {
	registerMetrics()

	return &CartHandler{
		createHandler:      createHandler,
		addItemHandler:     addItemHandler,
		removeItemHandler:  removeItemHandler,
		setQuantityHandler: setQuantityHandler,
		clearHandler:       clearHandler,
		deleteHandler:      deleteHandler,
		getHandler:         getHandler,
		listHandler:        listHandler,
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

func metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes wires the cart endpoints onto the router
func (h *CartHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/carts", metricsMiddleware("/api/carts", h.CreateCart)).Methods("POST")
	router.HandleFunc("/api/carts", metricsMiddleware("/api/carts", h.ListCarts)).Methods("GET")
	router.HandleFunc("/api/carts/{cid}", metricsMiddleware("/api/carts/{cid}", h.GetCart)).Methods("GET")
	router.HandleFunc("/api/carts/{cid}", metricsMiddleware("/api/carts/{cid}", h.DeleteCart)).Methods("DELETE")
	router.HandleFunc("/api/carts/{cid}/products", metricsMiddleware("/api/carts/{cid}/products", h.ClearCart)).Methods("DELETE")
	router.HandleFunc("/api/carts/{cid}/product/{pid}", metricsMiddleware("/api/carts/{cid}/product/{pid}", h.AddItem)).Methods("POST")
	router.HandleFunc("/api/carts/{cid}/product/{pid}", metricsMiddleware("/api/carts/{cid}/product/{pid}", h.SetQuantity)).Methods("PUT")
	router.HandleFunc("/api/carts/{cid}/product/{pid}", metricsMiddleware("/api/carts/{cid}/product/{pid}", h.RemoveItem)).Methods("DELETE")
}

// CreateCart handles POST /api/carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.createHandler.Handle(r.Context(), command.CreateCartCommand{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create cart")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Cart created successfully",
		Data:    cart,
	})
}

// ListCarts handles GET /api/carts
func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	carts, err := h.listHandler.Handle(r.Context(), query.ListCartsQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list carts")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"carts": carts,
			"total": len(carts),
		},
	})
}

// GetCart handles GET /api/carts/{cid}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cid := mux.Vars(r)["cid"]

	cart, err := h.getHandler.Handle(r.Context(), query.GetCartQuery{ID: cid})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    cart,
	})
}

// AddItem handles POST /api/carts/{cid}/product/{pid}
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	quantity := 1
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cmd := command.AddItemCommand{
		CartID:    vars["cid"],
		ProductID: vars["pid"],
		Quantity:  quantity,
	}

	cart, err := h.addItemHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Str("cart_id", cmd.CartID).
			Str("product_id", cmd.ProductID).
			Msg("Failed to add item to cart")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product added to cart successfully",
		Data:    cart,
	})
}

// SetQuantity handles PUT /api/carts/{cid}/product/{pid}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.SetQuantityCommand{
		CartID:    vars["cid"],
		ProductID: vars["pid"],
		Quantity:  req.Quantity,
	}

	cart, err := h.setQuantityHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Str("cart_id", cmd.CartID).
			Str("product_id", cmd.ProductID).
			Msg("Failed to set item quantity")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Quantity updated successfully",
		Data:    cart,
	})
}

// RemoveItem handles DELETE /api/carts/{cid}/product/{pid}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	cmd := command.RemoveItemCommand{
		CartID:    vars["cid"],
		ProductID: vars["pid"],
	}

	cart, err := h.removeItemHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Str("cart_id", cmd.CartID).
			Str("product_id", cmd.ProductID).
			Msg("Failed to remove item from cart")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product removed from cart successfully",
		Data:    cart,
	})
}

// ClearCart handles DELETE /api/carts/{cid}/products
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cid := mux.Vars(r)["cid"]

	cart, err := h.clearHandler.Handle(r.Context(), command.ClearCartCommand{CartID: cid})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("cart_id", cid).Msg("Failed to clear cart")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart cleared successfully",
		Data:    cart,
	})
}

// DeleteCart handles DELETE /api/carts/{cid}
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	cid := mux.Vars(r)["cid"]

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteCartCommand{CartID: cid}); err != nil {
		logger.Error(r.Context()).Err(err).Str("cart_id", cid).Msg("Failed to delete cart")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart deleted successfully",
	})
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
// Catalog errors surface through cart operations when a reservation fails.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, catalogdomain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
