// Package pricing contains the pure calculation engine for campaign quotes:
// per-location media rates with volume discounts, production and creative
// costs, capacity evaluation and quote-level aggregation. Nothing in this
// package performs I/O.
package pricing

import (
	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
)

// Volume discount: 10% off media when an item books this many in-charge
// periods or more.
const volumeDiscountMinPeriods = 3

var (
	volumeDiscountPct = decimal.NewFromInt(10)
	hundred           = decimal.NewFromInt(100)
)

// LocationPrice is the media price for one location across an item's full
// period set. Discount metadata is always populated; DiscountPct is zero
// when no discount applies, so callers never have to sniff the shape.
type LocationPrice struct {
	BasePerPeriod decimal.Decimal
	OriginalPrice decimal.Decimal
	TotalPrice    decimal.Decimal
	DiscountPct   decimal.Decimal
}

// LocationMediaPrice prices one location for the given period set. The
// location is priced independently for the full set, so campaign cost
// scales linearly with location count. A location missing from the
// format's rate table yields a CalculationError; the aggregator recovers
// from it.
func LocationMediaPrice(f *domain.Format, location string, periods []int) (LocationPrice, error) {
	if f == nil {
		return LocationPrice{}, &domain.CalculationError{Location: location, Reason: "no format"}
	}
	rate, ok := f.RateTable[location]
	if !ok {
		return LocationPrice{}, &domain.CalculationError{
			FormatSlug: f.Slug,
			Location:   location,
			Reason:     "location not in rate table",
		}
	}

	n := int64(len(periods))
	if n == 0 {
		return LocationPrice{}, nil
	}
	periodCount := decimal.NewFromInt(n)

	if rate.Kind == domain.RateStructured {
		// Structured entries arrive with their discount already baked into
		// the per-period total; report that metadata verbatim.
		s := rate.Structured
		original := clampMoney(s.BasePrice).Mul(periodCount)
		total := clampMoney(s.TotalPrice).Mul(periodCount)
		return LocationPrice{
			BasePerPeriod: clampMoney(s.BasePrice),
			OriginalPrice: original,
			TotalPrice:    total,
			DiscountPct:   clampMoney(s.DiscountPct),
		}, nil
	}

	base := clampMoney(rate.Flat)
	original := base.Mul(periodCount)
	pct := decimal.Zero
	if n >= volumeDiscountMinPeriods {
		pct = volumeDiscountPct
	}
	discount := original.Mul(pct).Div(hundred)
	return LocationPrice{
		BasePerPeriod: base,
		OriginalPrice: original,
		TotalPrice:    original.Sub(discount),
		DiscountPct:   pct,
	}, nil
}

// ProductionResult carries the production cost for a location.
type ProductionResult struct {
	TotalCost decimal.Decimal
}

// ProductionCost returns the printing/installation cost for quantity units
// at one location. Missing or negative rates contribute zero.
func ProductionCost(f *domain.Format, location string, quantity int) ProductionResult {
	if f == nil || quantity < 1 {
		return ProductionResult{TotalCost: decimal.Zero}
	}
	rate := clampMoney(f.ProductionRate)
	return ProductionResult{TotalCost: rate.Mul(decimal.NewFromInt(int64(quantity)))}
}

// CreativeResult carries the design cost for an item's creative assets.
type CreativeResult struct {
	TotalCost   decimal.Decimal
	CostPerUnit decimal.Decimal
}

// CreativeCost returns the design cost for assetCount assets at the given
// tier. Unknown tiers and non-positive counts contribute zero.
func CreativeCost(f *domain.Format, assetCount int, tier string) CreativeResult {
	if f == nil || assetCount < 1 {
		return CreativeResult{TotalCost: decimal.Zero, CostPerUnit: decimal.Zero}
	}
	perUnit, ok := f.CreativeCosts[tier]
	if !ok {
		return CreativeResult{TotalCost: decimal.Zero, CostPerUnit: decimal.Zero}
	}
	perUnit = clampMoney(perUnit)
	return CreativeResult{
		TotalCost:   perUnit.Mul(decimal.NewFromInt(int64(assetCount))),
		CostPerUnit: perUnit,
	}
}

// clampMoney treats negative catalog values as zero. Money is never
// negative anywhere in the engine.
func clampMoney(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
