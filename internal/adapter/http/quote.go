package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"adquote/internal/core/domain"
	"adquote/internal/core/port"
)

// handleCreateOrGetQuote idempotently returns the caller's draft quote.
// The body may carry the session's existing quote id; an empty body is
// fine and materialises a new draft. Repeat calls with the same id return
// the same quote.
func (h *Handler) handleCreateOrGetQuote(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}
	session := &port.Session{}
	if req.QuoteID != nil {
		id, err := uuid.Parse(*req.QuoteID)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quote id"})
			return
		}
		session.QuoteID = &id
	}
	quote, err := h.svc.CreateOrGetQuote(r.Context(), session)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

func (h *Handler) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	quote, err := h.svc.GetQuote(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if quote == nil {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "quote not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req itemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	session := &port.Session{QuoteID: &id}
	item, err := h.svc.AddItem(r.Context(), session, req.toInput())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// handleRemoveItem removes an item by id. A missing item is not an error
// condition for the caller flow; the response just reports removed=false.
func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	itemID, ok := h.parseID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}
	session := &port.Session{QuoteID: &id}
	removed, err := h.svc.RemoveItem(r.Context(), session, itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req submitRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	session := &port.Session{QuoteID: &id}
	quote, err := h.svc.Submit(r.Context(), session, port.ContactDetails{
		Name:    req.ContactName,
		Email:   req.ContactEmail,
		Phone:   req.ContactPhone,
		Company: req.CompanyName,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

// handleUpdateStatus is the staff transition endpoint.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req statusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	quote, err := h.svc.UpdateStatus(r.Context(), id, domain.Status(req.Status), req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}

func (h *Handler) parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
