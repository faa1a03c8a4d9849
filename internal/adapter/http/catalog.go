package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
)

type formatResponse struct {
	Slug             string                     `json:"slug"`
	Name             string                     `json:"name"`
	Category         string                     `json:"category"`
	Locations        []string                   `json:"locations"`
	RateTable        map[string]decimal.Decimal `json:"rate_table"`
	ProductionRate   decimal.Decimal            `json:"production_rate"`
	CreativeCosts    map[string]decimal.Decimal `json:"creative_costs"`
	AvailablePeriods []int                      `json:"available_periods"`
}

// toFormatResponse flattens the rate table for the wire: clients see the
// effective per-period price per location, not the tagged representation.
func toFormatResponse(f *domain.Format) formatResponse {
	rates := make(map[string]decimal.Decimal, len(f.RateTable))
	locations := make([]string, 0, len(f.RateTable))
	for loc, rate := range f.RateTable {
		locations = append(locations, loc)
		if rate.Kind == domain.RateStructured {
			rates[loc] = rate.Structured.TotalPrice
		} else {
			rates[loc] = rate.Flat
		}
	}
	return formatResponse{
		Slug:             f.Slug,
		Name:             f.Name,
		Category:         f.Category,
		Locations:        locations,
		RateTable:        rates,
		ProductionRate:   f.ProductionRate,
		CreativeCosts:    f.CreativeCosts,
		AvailablePeriods: f.AvailablePeriods,
	}
}

func (h *Handler) handleListFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := h.catalog.ListFormats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := make([]formatResponse, 0, len(formats))
	for i := range formats {
		resp = append(resp, toFormatResponse(&formats[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetFormat(w http.ResponseWriter, r *http.Request) {
	f, err := h.catalog.GetFormat(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if f == nil {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "format not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, toFormatResponse(f))
}

type periodResponse struct {
	Number    int       `json:"number"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h *Handler) handleGetPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.catalog.GetAvailablePeriods(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := make([]periodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, periodResponse{Number: p.Number, StartDate: p.StartDate, EndDate: p.EndDate})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCreativeTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.catalog.GetCreativeTiers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if tiers == nil {
		tiers = []string{}
	}
	h.writeJSON(w, http.StatusOK, tiers)
}
