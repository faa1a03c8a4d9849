package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"log/slog"

	"adquote/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It holds the quote usecase and catalog ports, a validator for request
// DTOs and a logger for structured logging. Routes are registered on a
// chi.Router for convenient method handling.
type Handler struct {
	svc      port.QuoteUseCase
	catalog  port.Catalog
	logger   *slog.Logger
	validate *validator.Validate
	router   chi.Router
}

// NewHandler creates a handler with all routes configured. Status updates
// are staff operations; authenticating staff callers belongs to the
// surrounding web layer, not here.
func NewHandler(svc port.QuoteUseCase, catalog port.Catalog, logger *slog.Logger) *Handler {
	h := &Handler{
		svc:      svc,
		catalog:  catalog,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quotes", h.handleCreateOrGetQuote)
		r.Get("/quotes/{id}", h.handleGetQuote)
		r.Post("/quotes/{id}/items", h.handleAddItem)
		r.Delete("/quotes/{id}/items/{itemID}", h.handleRemoveItem)
		r.Post("/quotes/{id}/submit", h.handleSubmit)
		r.Patch("/quotes/{id}/status", h.handleUpdateStatus)

		r.Post("/pricing/preview", h.handlePricingPreview)

		r.Get("/catalog/formats", h.handleListFormats)
		r.Get("/catalog/formats/{slug}", h.handleGetFormat)
		r.Get("/catalog/periods", h.handleGetPeriods)
		r.Get("/catalog/creative-tiers", h.handleGetCreativeTiers)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
