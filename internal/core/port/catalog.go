package port

import (
	"context"

	"adquote/internal/core/domain"
)

// Catalog is the read-only reference-data port for advertising formats and
// campaign periods. Implementations return empty collections, not errors,
// while backing data is still loading or absent; GetFormat returns
// (nil, nil) for an unknown slug.
type Catalog interface {
	// GetFormat returns the format with the given slug, or nil when none
	// exists.
	GetFormat(ctx context.Context, slug string) (*domain.Format, error)
	// ListFormats returns every format in the catalog.
	ListFormats(ctx context.Context) ([]domain.Format, error)
	// GetAvailablePeriods returns the bookable in-charge periods. An empty
	// location returns the global period list.
	GetAvailablePeriods(ctx context.Context, location string) ([]domain.CampaignPeriod, error)
	// GetCreativeTiers returns the known creative tier names.
	GetCreativeTiers(ctx context.Context) ([]string, error)
}
