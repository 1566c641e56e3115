package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/shop-backend/pkg/logger"
)

// Pinger verifies the durable document behind a store is still reachable.
type Pinger interface {
	Ping() error
}

// LoggingMiddleware provides structured request logging for the router
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		logEvent := logger.Info(r.Context())
		if rw.statusCode >= 500 {
			logEvent = logger.Error(r.Context())
		} else if rw.statusCode >= 400 {
			logEvent = logger.Warn(r.Context())
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("Request completed")
	})
}

// RegisterHealthCheck registers the health endpoint. It reports unhealthy
// when either durable document can no longer be read.
func RegisterHealthCheck(router *mux.Router, stores ...Pinger) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		for _, store := range stores {
			if err := store.Ping(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Store unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Service is healthy",
		})
	}).Methods("GET")
}
