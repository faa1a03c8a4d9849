package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Format describes an out-of-home advertising medium (48-sheet billboard,
// bus shelter panel, digital screen and so on). It is reference data owned
// by the catalog and never mutated by quoting code.
type Format struct {
	Slug             string
	Name             string
	Category         string
	RateTable        map[string]RateValue       // keyed by location name
	ProductionRate   decimal.Decimal            // per unit, per location
	CreativeCosts    map[string]decimal.Decimal // keyed by creative tier
	AvailablePeriods []int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RateValue is a single rate-table entry. Catalog data stores either a flat
// per-period price or a structured rate carrying its own discount metadata.
// The rate calculator normalises both forms; nothing downstream inspects
// the kind.
type RateValue struct {
	Kind       RateKind
	Flat       decimal.Decimal
	Structured StructuredRate
}

type RateKind int

const (
	RateFlat RateKind = iota
	RateStructured
)

// StructuredRate is a pre-adjusted rate: BasePrice is the undiscounted
// per-period price, TotalPrice the adjusted per-period price and
// DiscountPct the percentage already baked into TotalPrice.
type StructuredRate struct {
	BasePrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	DiscountPct decimal.Decimal
}

// FlatRate builds a flat rate-table entry.
func FlatRate(perPeriod decimal.Decimal) RateValue {
	return RateValue{Kind: RateFlat, Flat: perPeriod}
}

// StructuredRateValue builds a structured rate-table entry.
func StructuredRateValue(base, total, discountPct decimal.Decimal) RateValue {
	return RateValue{Kind: RateStructured, Structured: StructuredRate{
		BasePrice:   base,
		TotalPrice:  total,
		DiscountPct: discountPct,
	}}
}

// Catalog storage keeps rate tables as JSON where a flat rate is a bare
// number and a structured rate an object. The tagged union is resolved
// here, at the codec, so nothing downstream type-sniffs.

type structuredRateJSON struct {
	BasePrice   decimal.Decimal `json:"base_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// MarshalJSON encodes a flat rate as a number and a structured rate as an
// object.
func (r RateValue) MarshalJSON() ([]byte, error) {
	if r.Kind == RateStructured {
		return json.Marshal(structuredRateJSON{
			BasePrice:   r.Structured.BasePrice,
			TotalPrice:  r.Structured.TotalPrice,
			DiscountPct: r.Structured.DiscountPct,
		})
	}
	return json.Marshal(r.Flat)
}

// UnmarshalJSON accepts either encoding.
func (r *RateValue) UnmarshalJSON(data []byte) error {
	var flat decimal.Decimal
	if err := json.Unmarshal(data, &flat); err == nil {
		*r = FlatRate(flat)
		return nil
	}
	var s structuredRateJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = StructuredRateValue(s.BasePrice, s.TotalPrice, s.DiscountPct)
	return nil
}

// CampaignPeriod is one bookable in-charge slot, conventionally two weeks.
// Period numbers are ordinal and unique within the catalog.
type CampaignPeriod struct {
	Number    int
	StartDate time.Time
	EndDate   time.Time
}
