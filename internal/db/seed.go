package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
)

// seedFormat is one demo catalog entry. Rates are per location per
// two-week in-charge period, in pounds.
type seedFormat struct {
	name           string
	category       string
	rates          map[string]float64
	productionRate float64
	creativeCosts  map[string]float64
}

var demoFormats = []seedFormat{
	{
		name:     "48 Sheet Billboard",
		category: "billboard",
		rates: map[string]float64{
			"London":     850,
			"Manchester": 500,
			"Birmingham": 475,
			"Leeds":      425,
			"Glasgow":    400,
		},
		productionRate: 95,
		creativeCosts:  map[string]float64{"standard": 250, "premium": 600},
	},
	{
		name:     "96 Sheet Billboard",
		category: "billboard",
		rates: map[string]float64{
			"London":     1600,
			"Manchester": 950,
			"Birmingham": 900,
		},
		productionRate: 180,
		creativeCosts:  map[string]float64{"standard": 350, "premium": 800},
	},
	{
		name:     "Bus Shelter 6 Sheet",
		category: "street-furniture",
		rates: map[string]float64{
			"London":     320,
			"Manchester": 210,
			"Birmingham": 195,
			"Leeds":      180,
			"Glasgow":    175,
			"Bristol":    185,
		},
		productionRate: 28,
		creativeCosts:  map[string]float64{"standard": 150, "premium": 400},
	},
	{
		name:     "Digital Screen D6",
		category: "digital",
		rates: map[string]float64{
			"London":     540,
			"Manchester": 360,
			"Birmingham": 330,
			"Leeds":      300,
		},
		productionRate: 0, // no print run for digital
		creativeCosts:  map[string]float64{"standard": 200, "premium": 550, "motion": 1200},
	},
}

// Seed inserts the demo format catalog and the 26 two-week in-charge
// periods of the current year. It is a no-op for formats that already
// exist, so a restart with seeding enabled is safe.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	now := time.Now().UTC()
	for _, f := range demoFormats {
		rateTable := make(map[string]domain.RateValue, len(f.rates))
		for loc, rate := range f.rates {
			rateTable[loc] = domain.FlatRate(decimal.NewFromFloat(rate))
		}
		rateJSON, err := json.Marshal(rateTable)
		if err != nil {
			return err
		}
		costs := make(map[string]decimal.Decimal, len(f.creativeCosts))
		for tier, c := range f.creativeCosts {
			costs[tier] = decimal.NewFromFloat(c)
		}
		costsJSON, err := json.Marshal(costs)
		if err != nil {
			return err
		}

		periods := make([]int, 26)
		for i := range periods {
			periods[i] = i + 1
		}

		_, err = pool.Exec(ctx, `
            INSERT INTO formats (slug, name, category, rate_table, production_rate, creative_costs, available_periods, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
            ON CONFLICT (slug) DO NOTHING`,
			slug.Make(f.name), f.name, f.category, rateJSON,
			decimal.NewFromFloat(f.productionRate), costsJSON, periods, now)
		if err != nil {
			return err
		}
	}

	// In-charge periods: 26 fortnights starting the first Monday of the year.
	start := firstMonday(now.Year())
	for n := 1; n <= 26; n++ {
		end := start.AddDate(0, 0, 13)
		_, err := pool.Exec(ctx, `
            INSERT INTO campaign_periods (number, location, start_date, end_date)
            VALUES ($1, '', $2, $3)
            ON CONFLICT (number, location) DO NOTHING`, n, start, end)
		if err != nil {
			return err
		}
		start = start.AddDate(0, 0, 14)
	}
	return nil
}

func firstMonday(year int) time.Time {
	d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
