package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/shop-backend/internal/catalog/usecase/query"
	"github.com/tair/shop-backend/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewHandler renders the server-side product listing. It is a read-only
// consumer of catalog snapshots and never mutates either store.
type ViewHandler struct {
	list      *query.ListProductsHandler
	templates *template.Template
}

// NewViewHandler creates a new view handler
func NewViewHandler(list *query.ListProductsHandler) (*ViewHandler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &ViewHandler{list: list, templates: templates}, nil
}

// RegisterRoutes wires the view endpoints onto the router
func (h *ViewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Home).Methods("GET")
}

// Home handles GET / with a rendered product listing
func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	products, err := h.list.Handle(r.Context(), query.ListProductsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load products for view")
		http.Error(w, "failed to load products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "home.html", map[string]interface{}{
		"Products": products,
	}); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to render home view")
	}
}
