package pricing

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
)

// VATRate is the fixed jurisdiction rate applied at display time only.
var VATRate = decimal.NewFromFloat(0.20)

// Totals is the aggregate pricing result for an item or a whole quote.
// TotalCost is post-discount: MediaPrice + ProductionCost + CreativeCost.
type Totals struct {
	MediaPrice     decimal.Decimal
	ProductionCost decimal.Decimal
	CreativeCost   decimal.Decimal
	TotalCost      decimal.Decimal
	TotalDiscount  decimal.Decimal
	OriginalCost   decimal.Decimal
}

// ItemConfig is one campaign line as selected by the user, before it is
// persisted as a QuoteItem.
type ItemConfig struct {
	Format         *domain.Format
	Quantity       int
	Periods        []int
	Locations      []string
	NeedsCreative  bool
	CreativeAssets int
	CreativeTier   string
}

// Aggregator reduces item configurations into pricing totals. It carries a
// logger because a single location's failed rate lookup is logged and
// skipped rather than propagated.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator returns an aggregator logging through the given logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// ItemCosts prices a single item configuration across all its selected
// locations. Unset format, empty periods or empty locations return an
// all-zero result so a half-completed form never errors. A location whose
// rate lookup fails contributes exactly zero; the remaining locations are
// still priced.
func (a *Aggregator) ItemCosts(cfg ItemConfig) Totals {
	t := zeroTotals()
	if cfg.Format == nil || len(cfg.Periods) == 0 || len(cfg.Locations) == 0 {
		return t
	}

	for _, loc := range cfg.Locations {
		price, err := LocationMediaPrice(cfg.Format, loc, cfg.Periods)
		if err != nil {
			a.logger.Warn("location rate lookup failed, skipping location",
				slog.String("format", cfg.Format.Slug),
				slog.String("location", loc),
				slog.Any("error", err))
			continue
		}
		a.logger.Debug("priced location",
			slog.String("format", cfg.Format.Slug),
			slog.String("location", loc),
			slog.String("total", price.TotalPrice.String()),
			slog.String("discount_pct", price.DiscountPct.String()))

		t.MediaPrice = t.MediaPrice.Add(price.TotalPrice)
		t.OriginalCost = t.OriginalCost.Add(price.OriginalPrice)
		t.TotalDiscount = t.TotalDiscount.Add(price.OriginalPrice.Sub(price.TotalPrice))

		prod := ProductionCost(cfg.Format, loc, cfg.Quantity)
		t.ProductionCost = t.ProductionCost.Add(prod.TotalCost)
	}

	if cfg.NeedsCreative {
		cr := CreativeCost(cfg.Format, cfg.CreativeAssets, cfg.CreativeTier)
		t.CreativeCost = cr.TotalCost
	}

	t.TotalCost = t.MediaPrice.Add(t.ProductionCost).Add(t.CreativeCost)
	return t
}

// Aggregate reduces all items of a campaign into quote-level totals.
func (a *Aggregator) Aggregate(items []ItemConfig) Totals {
	sum := zeroTotals()
	for _, cfg := range items {
		it := a.ItemCosts(cfg)
		sum.MediaPrice = sum.MediaPrice.Add(it.MediaPrice)
		sum.ProductionCost = sum.ProductionCost.Add(it.ProductionCost)
		sum.CreativeCost = sum.CreativeCost.Add(it.CreativeCost)
		sum.TotalCost = sum.TotalCost.Add(it.TotalCost)
		sum.TotalDiscount = sum.TotalDiscount.Add(it.TotalDiscount)
		sum.OriginalCost = sum.OriginalCost.Add(it.OriginalCost)
	}
	return sum
}

// Display carries the presentation-time VAT split. The VAT amount is
// derived fresh on every call and is never persisted.
type Display struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal
}

// DisplayTotals derives the VAT-inclusive view of a net total.
func DisplayTotals(net decimal.Decimal) Display {
	vat := net.Mul(VATRate)
	return Display{Net: net, VAT: vat, Gross: net.Add(vat)}
}

func zeroTotals() Totals {
	return Totals{
		MediaPrice:     decimal.Zero,
		ProductionCost: decimal.Zero,
		CreativeCost:   decimal.Zero,
		TotalCost:      decimal.Zero,
		TotalDiscount:  decimal.Zero,
		OriginalCost:   decimal.Zero,
	}
}
