package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/tair/shop-backend/docs"
	"github.com/tair/shop-backend/internal/cart"
	cartDelivery "github.com/tair/shop-backend/internal/cart/delivery/http"
	cartRepository "github.com/tair/shop-backend/internal/cart/repository"
	"github.com/tair/shop-backend/internal/catalog"
	httpDelivery "github.com/tair/shop-backend/internal/catalog/delivery/http"
	catalogRepository "github.com/tair/shop-backend/internal/catalog/repository"
	"github.com/tair/shop-backend/internal/catalog/usecase/query"
	"github.com/tair/shop-backend/internal/views"
	"github.com/tair/shop-backend/kafka"
	"github.com/tair/shop-backend/pkg/logger"
	"github.com/tair/shop-backend/pkg/tracing"
)

// @title Shop Backend API
// @version 1.0
// @description File-backed e-commerce backend: product catalog and shopping carts with stock coordination
// @host localhost:8080
// @BasePath /
func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "shop-backend")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting shop backend")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Open the document stores
	dataDir := getEnv("DATA_DIR", "./data")

	productStore, err := catalogRepository.NewFileProductRepository(filepath.Join(dataDir, "products.json"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open product store")
	}

	cartStore, err := cartRepository.NewFileCartRepository(filepath.Join(dataDir, "carts.json"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open cart store")
	}

	logger.Logger.Info().
		Str("data_dir", dataDir).
		Msg("Document stores initialized successfully")

	// Wrap stores with tracing decorators
	products := catalogRepository.NewTracingProductRepository(productStore)
	carts := cartRepository.NewTracingCartRepository(cartStore)

	// Optional Kafka publisher for product events
	var notifier httpDelivery.Notifier
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Str("brokers", brokers).Msg("Failed to connect Kafka publisher, product events disabled")
		} else {
			defer publisher.Close()
			notifier = publisher
			logger.Logger.Info().Str("brokers", brokers).Msg("Kafka publisher connected")
		}
	}

	// Initialize handlers with Wire DI
	productHandler, err := catalog.InitializeHTTPHandler(products, notifier)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog handler")
	}

	cartHandler, err := cart.InitializeHTTPHandler(carts, products)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize cart handler")
	}

	viewHandler, err := views.NewViewHandler(query.NewListProductsHandler(products))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize view handler")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	startHTTPServer(productHandler, cartHandler, viewHandler, productStore, cartStore, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(
	productHandler *httpDelivery.ProductHandler,
	cartHandler *cartDelivery.CartHandler,
	viewHandler *views.ViewHandler,
	productStore *catalogRepository.FileProductRepository,
	cartStore *cartRepository.FileCartRepository,
	port string,
) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	productHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	viewHandler.RegisterRoutes(router)

	// Health check endpoint
	httpDelivery.RegisterHealthCheck(router, productStore, cartStore)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Request logging
	router.Use(httpDelivery.LoggingMiddleware)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/index.html").
		Msg("HTTP server started")

	handler := otelhttp.NewHandler(c.Handler(router), "http-server")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
