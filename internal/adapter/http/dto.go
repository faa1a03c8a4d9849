package httpadapter

import (
	"time"

	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
	"adquote/internal/core/port"
	"adquote/internal/core/pricing"
)

type createQuoteRequest struct {
	QuoteID *string `json:"quote_id,omitempty" validate:"omitempty,uuid4"`
}

type itemRequest struct {
	FormatSlug     string   `json:"format_slug" validate:"required"`
	Quantity       int      `json:"quantity" validate:"gte=1"`
	Periods        []int    `json:"periods" validate:"min=1,dive,gte=1"`
	Locations      []string `json:"locations" validate:"min=1,dive,required"`
	NeedsCreative  bool     `json:"needs_creative"`
	CreativeAssets int      `json:"creative_assets" validate:"gte=0"`
	CreativeTier   string   `json:"creative_tier"`
}

func (r itemRequest) toInput() port.ItemInput {
	return port.ItemInput{
		FormatSlug:     r.FormatSlug,
		Quantity:       r.Quantity,
		Periods:        r.Periods,
		Locations:      r.Locations,
		NeedsCreative:  r.NeedsCreative,
		CreativeAssets: r.CreativeAssets,
		CreativeTier:   r.CreativeTier,
	}
}

// previewRequest relaxes itemRequest: a half-completed form previews as
// zero totals rather than failing validation.
type previewRequest struct {
	FormatSlug     string   `json:"format_slug"`
	Quantity       int      `json:"quantity" validate:"gte=0"`
	Periods        []int    `json:"periods"`
	Locations      []string `json:"locations"`
	NeedsCreative  bool     `json:"needs_creative"`
	CreativeAssets int      `json:"creative_assets" validate:"gte=0"`
	CreativeTier   string   `json:"creative_tier"`
}

type submitRequest struct {
	ContactName  string `json:"contact_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone"`
	CompanyName  string `json:"company_name"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type itemResponse struct {
	ID             string          `json:"id"`
	QuoteID        string          `json:"quote_id"`
	FormatSlug     string          `json:"format_slug"`
	FormatName     string          `json:"format_name"`
	Quantity       int             `json:"quantity"`
	Periods        []int           `json:"periods"`
	Locations      []string        `json:"locations"`
	NeedsCreative  bool            `json:"needs_creative"`
	CreativeAssets int             `json:"creative_assets,omitempty"`
	CreativeTier   string          `json:"creative_tier,omitempty"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	ProductionCost decimal.Decimal `json:"production_cost"`
	CreativeCost   decimal.Decimal `json:"creative_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	OriginalCost   decimal.Decimal `json:"original_cost"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

type quoteResponse struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Items           []itemResponse  `json:"items"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	VAT             decimal.Decimal `json:"vat"`
	TotalIncVAT     decimal.Decimal `json:"total_inc_vat"`
	ContactName     string          `json:"contact_name,omitempty"`
	ContactEmail    string          `json:"contact_email,omitempty"`
	ContactPhone    string          `json:"contact_phone,omitempty"`
	CompanyName     string          `json:"company_name,omitempty"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ContractAt      *time.Time      `json:"contract_at,omitempty"`
	ActiveAt        *time.Time      `json:"active_at,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// toQuoteResponse maps a quote for the wire. The VAT figures are derived
// from the current total on every call; they are never read from storage.
func toQuoteResponse(q *domain.Quote) quoteResponse {
	items := make([]itemResponse, 0, len(q.Items))
	for i := range q.Items {
		items = append(items, toItemResponse(&q.Items[i]))
	}
	display := pricing.DisplayTotals(q.SumItems())
	return quoteResponse{
		ID:              q.ID.String(),
		Status:          string(q.Status),
		Items:           items,
		TotalCost:       display.Net,
		VAT:             display.VAT,
		TotalIncVAT:     display.Gross,
		ContactName:     q.ContactName,
		ContactEmail:    q.ContactEmail,
		ContactPhone:    q.ContactPhone,
		CompanyName:     q.CompanyName,
		SubmittedAt:     q.SubmittedAt,
		ConfirmedAt:     q.ConfirmedAt,
		ApprovedAt:      q.ApprovedAt,
		ContractAt:      q.ContractAt,
		ActiveAt:        q.ActiveAt,
		RejectedAt:      q.RejectedAt,
		RejectionReason: q.RejectionReason,
		CreatedAt:       q.CreatedAt,
	}
}

func toItemResponse(it *domain.QuoteItem) itemResponse {
	return itemResponse{
		ID:             it.ID.String(),
		QuoteID:        it.QuoteID.String(),
		FormatSlug:     it.FormatSlug,
		FormatName:     it.FormatName,
		Quantity:       it.Quantity,
		Periods:        it.Periods,
		Locations:      it.Locations,
		NeedsCreative:  it.NeedsCreative,
		CreativeAssets: it.CreativeAssets,
		CreativeTier:   it.CreativeTier,
		BaseCost:       it.BaseCost,
		ProductionCost: it.ProductionCost,
		CreativeCost:   it.CreativeCost,
		TotalCost:      it.TotalCost,
		OriginalCost:   it.OriginalCost,
		DiscountPct:    it.DiscountPct,
		DiscountAmount: it.DiscountAmount,
	}
}

type capacityResponse struct {
	Used        int     `json:"used"`
	Max         int     `json:"max"`
	Utilization float64 `json:"utilization"`
	Remaining   int     `json:"remaining"`
	Status      string  `json:"status"`
}

type creativeCapacityResponse struct {
	Efficiency       float64  `json:"efficiency"`
	CreativesPerSite float64  `json:"creatives_per_site"`
	Status           string   `json:"status"`
	Recommendations  []string `json:"recommendations"`
}

type previewResponse struct {
	Capacity capacityResponse         `json:"capacity"`
	Creative creativeCapacityResponse `json:"creative"`

	MediaPrice     decimal.Decimal `json:"media_price"`
	ProductionCost decimal.Decimal `json:"production_cost"`
	CreativeCost   decimal.Decimal `json:"creative_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	OriginalCost   decimal.Decimal `json:"original_cost"`
	VAT            decimal.Decimal `json:"vat"`
	TotalIncVAT    decimal.Decimal `json:"total_inc_vat"`
}

func toPreviewResponse(p *port.PreviewResult) previewResponse {
	recs := make([]string, 0, 2)
	for rec := range p.Creative.Recommendations() {
		recs = append(recs, rec)
	}
	return previewResponse{
		Capacity: capacityResponse{
			Used:        p.Capacity.Used,
			Max:         p.Capacity.Max,
			Utilization: p.Capacity.Utilization,
			Remaining:   p.Capacity.Remaining,
			Status:      string(p.Capacity.Status),
		},
		Creative: creativeCapacityResponse{
			Efficiency:       p.Creative.Efficiency,
			CreativesPerSite: p.Creative.CreativesPerSite,
			Status:           string(p.Creative.Status),
			Recommendations:  recs,
		},
		MediaPrice:     p.Totals.MediaPrice,
		ProductionCost: p.Totals.ProductionCost,
		CreativeCost:   p.Totals.CreativeCost,
		TotalCost:      p.Totals.TotalCost,
		TotalDiscount:  p.Totals.TotalDiscount,
		OriginalCost:   p.Totals.OriginalCost,
		VAT:            p.Display.VAT,
		TotalIncVAT:    p.Display.Gross,
	}
}
