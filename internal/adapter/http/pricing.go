package httpadapter

import (
	"net/http"
)

// handlePricingPreview evaluates capacity and pricing for an unsaved
// configuration. Incomplete selections are acceptable and yield zero
// totals, so the front end can recompute on every selection change.
func (h *Handler) handlePricingPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.svc.Preview(r.Context(), itemRequest{
		FormatSlug:     req.FormatSlug,
		Quantity:       req.Quantity,
		Periods:        req.Periods,
		Locations:      req.Locations,
		NeedsCreative:  req.NeedsCreative,
		CreativeAssets: req.CreativeAssets,
		CreativeTier:   req.CreativeTier,
	}.toInput())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPreviewResponse(result))
}
