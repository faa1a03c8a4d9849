package port

import (
	"context"

	"github.com/google/uuid"

	"adquote/internal/core/domain"
	"adquote/internal/core/pricing"
)

// Session is the explicit session-scoped context passed to every quote
// operation. The quote id is the sole session token; there is no hidden
// ambient state. CreateOrGetQuote fills QuoteID when it materialises a
// draft.
type Session struct {
	QuoteID *uuid.UUID
	UserID  *uuid.UUID
}

// ItemInput is one campaign line as configured by the user.
type ItemInput struct {
	FormatSlug     string
	Quantity       int
	Periods        []int
	Locations      []string
	NeedsCreative  bool
	CreativeAssets int
	CreativeTier   string
}

// PreviewResult is the live capacity and pricing view recomputed on every
// selection change. It carries no transport envelope.
type PreviewResult struct {
	Capacity pricing.LocationCapacityResult
	Creative pricing.CreativeCapacityResult
	Totals   pricing.Totals
	Display  pricing.Display
}

// QuoteUseCase is the primary port into the quoting core.
type QuoteUseCase interface {
	// CreateOrGetQuote idempotently returns the session's current draft
	// quote, creating one if none exists.
	CreateOrGetQuote(ctx context.Context, session *Session) (*domain.Quote, error)
	// GetQuote returns a quote by id, or nil when not found.
	GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	// AddItem validates the input, snapshots its costs and appends it to
	// the session's draft quote.
	AddItem(ctx context.Context, session *Session, in ItemInput) (*domain.QuoteItem, error)
	// RemoveItem removes an item by id. It reports false, without error,
	// when the id is not part of the quote.
	RemoveItem(ctx context.Context, session *Session, itemID uuid.UUID) (bool, error)
	// Submit transitions the draft to submitted, persisting the contact
	// details. It fails with a ValidationError when the quote has no items
	// or the contact name/email is missing.
	Submit(ctx context.Context, session *Session, contact ContactDetails) (*domain.Quote, error)
	// UpdateStatus performs a staff status transition per the quote state
	// machine. Rejection requires a non-empty reason.
	UpdateStatus(ctx context.Context, quoteID uuid.UUID, status domain.Status, reason string) (*domain.Quote, error)
	// Preview evaluates capacity and pricing for an unsaved configuration.
	Preview(ctx context.Context, in ItemInput) (*PreviewResult, error)
}
