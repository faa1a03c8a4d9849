package pricing

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
)

// CapacityStatus bands a capacity result by utilisation.
type CapacityStatus string

const (
	CapacityOK        CapacityStatus = "ok"
	CapacityWarning   CapacityStatus = "warning"
	CapacityAtLimit   CapacityStatus = "at-limit"
	CapacityOverLimit CapacityStatus = "over-limit"
)

// LocationCapacityResult reports how many location slots a configuration
// uses against the maximum the booked quantity and periods allow.
type LocationCapacityResult struct {
	Used        int
	Max         int
	Utilization float64 // percent
	Remaining   int
	Status      CapacityStatus
}

// LocationCapacity evaluates whether the selected locations fit within the
// slot capacity quantity × |periods|. It never fails: zero or malformed
// inputs degrade to max=0/over-limit instead of dividing by zero.
func LocationCapacity(quantity int, periods []int, areas []string) LocationCapacityResult {
	used := len(areas)
	max := 0
	if quantity > 0 {
		max = quantity * len(periods)
	}
	if max == 0 {
		return LocationCapacityResult{
			Used:      used,
			Max:       0,
			Remaining: -used,
			Status:    CapacityOverLimit,
		}
	}

	util := float64(used) / float64(max) * 100
	var status CapacityStatus
	switch {
	case used > max:
		status = CapacityOverLimit
	case used == max:
		status = CapacityAtLimit
	case util >= 80:
		status = CapacityWarning
	default:
		status = CapacityOK
	}
	return LocationCapacityResult{
		Used:        used,
		Max:         max,
		Utilization: util,
		Remaining:   max - used,
		Status:      status,
	}
}

// Creative rotation bands, expressed as creatives per site.
const (
	creativeRatioLow  = 0.5
	creativeRatioHigh = 2.0
)

// CreativeCapacityResult reports how the number of creative assets relates
// to the number of booked sites. Recommendations is a lazy, finite sequence
// of optimisation suggestions for the current band.
type CreativeCapacityResult struct {
	Efficiency       float64 // percent
	CreativesPerSite float64
	Status           CapacityStatus

	sites        int
	assets       int
	costPerAsset decimal.Decimal
	siteCost     decimal.Decimal
}

// CreativeCapacity evaluates the creative-asset-to-site ratio. It never
// fails; zero sites degrade to over-limit.
func CreativeCapacity(sites, assets int, needsCreative bool, costPerAsset, siteCost decimal.Decimal) CreativeCapacityResult {
	if !needsCreative {
		return CreativeCapacityResult{Efficiency: 100, Status: CapacityOK}
	}
	if sites <= 0 {
		return CreativeCapacityResult{
			Status:       CapacityOverLimit,
			assets:       assets,
			costPerAsset: costPerAsset,
			siteCost:     siteCost,
		}
	}

	ratio := float64(assets) / float64(sites)
	efficiency := ratio / creativeRatioHigh * 100
	if efficiency > 100 {
		efficiency = 100
	}

	var status CapacityStatus
	switch {
	case ratio > creativeRatioHigh:
		status = CapacityOverLimit
	case ratio == creativeRatioHigh:
		status = CapacityAtLimit
	case ratio < creativeRatioLow:
		status = CapacityWarning
	default:
		status = CapacityOK
	}
	return CreativeCapacityResult{
		Efficiency:       efficiency,
		CreativesPerSite: ratio,
		Status:           status,
		sites:            sites,
		assets:           assets,
		costPerAsset:     costPerAsset,
		siteCost:         siteCost,
	}
}

// Recommendations yields human-readable suggestions for the current band.
// The sequence is finite and computed on demand.
func (r CreativeCapacityResult) Recommendations() iter.Seq[string] {
	return func(yield func(string) bool) {
		switch r.Status {
		case CapacityOverLimit:
			if r.sites <= 0 {
				if !yield("Select at least one site before adding creative assets") {
					return
				}
				return
			}
			excess := r.assets - int(creativeRatioHigh)*r.sites
			if excess > 0 {
				saving := r.costPerAsset.Mul(decimal.NewFromInt(int64(excess)))
				if !yield(fmt.Sprintf("Reduce creative assets by %d to save £%s", excess, saving.StringFixed(2))) {
					return
				}
			}
			yield("More than two creatives per site rarely improves response rates")
		case CapacityAtLimit:
			yield("Creative rotation is at the recommended maximum of two per site")
		case CapacityWarning:
			needed := int(float64(r.sites)*creativeRatioLow+0.999) - r.assets
			if needed > 0 {
				if !yield(fmt.Sprintf("Add %d more creative asset(s) to avoid over-exposing a single design", needed)) {
					return
				}
			}
			if r.siteCost.IsPositive() {
				yield(fmt.Sprintf("A creative refresh costs far less than the £%s media spend it protects", r.siteCost.StringFixed(2)))
			}
		}
	}
}
