package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adquote/internal/core/domain"
)

// CatalogRepository implements port.Catalog against PostgreSQL. Formats are
// reference data: rate and creative-cost tables live in JSONB columns and
// are decoded through the domain codec.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a new repository instance.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

const formatColumns = `slug, name, category, rate_table, production_rate, creative_costs, available_periods, created_at, updated_at`

func scanFormat(row pgx.Row) (*domain.Format, error) {
	var (
		f                domain.Format
		rateTableRaw     []byte
		creativeCostsRaw []byte
	)
	err := row.Scan(&f.Slug, &f.Name, &f.Category, &rateTableRaw, &f.ProductionRate,
		&creativeCostsRaw, &f.AvailablePeriods, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(rateTableRaw, &f.RateTable); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(creativeCostsRaw, &f.CreativeCosts); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFormat returns a format by slug, or nil when it does not exist.
func (r *CatalogRepository) GetFormat(ctx context.Context, slug string) (*domain.Format, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+formatColumns+` FROM formats WHERE slug = $1`, slug)
	f, err := scanFormat(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFormats returns every format, ordered by name.
func (r *CatalogRepository) ListFormats(ctx context.Context) ([]domain.Format, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+formatColumns+` FROM formats ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	formats := make([]domain.Format, 0)
	for rows.Next() {
		f, err := scanFormat(rows)
		if err != nil {
			return nil, err
		}
		formats = append(formats, *f)
	}
	return formats, rows.Err()
}

// GetAvailablePeriods returns the in-charge periods bookable for a
// location. Location-specific rows take precedence; when none exist the
// global list (empty location) is returned. An empty catalog yields an
// empty slice, not an error.
func (r *CatalogRepository) GetAvailablePeriods(ctx context.Context, location string) ([]domain.CampaignPeriod, error) {
	periods, err := r.queryPeriods(ctx, location)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 && location != "" {
		return r.queryPeriods(ctx, "")
	}
	return periods, nil
}

func (r *CatalogRepository) queryPeriods(ctx context.Context, location string) ([]domain.CampaignPeriod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT number, start_date, end_date FROM campaign_periods WHERE location = $1 ORDER BY number`,
		location)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CampaignPeriod, error) {
		var p domain.CampaignPeriod
		err := row.Scan(&p.Number, &p.StartDate, &p.EndDate)
		return p, err
	})
}

// GetCreativeTiers returns the distinct tier names present across all
// format creative-cost tables.
func (r *CatalogRepository) GetCreativeTiers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT jsonb_object_keys(creative_costs) AS tier FROM formats ORDER BY tier`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var tier string
		err := row.Scan(&tier)
		return tier, err
	})
}
