package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
)

// ContactDetails is the contact metadata captured at submission.
type ContactDetails struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// QuoteRepository is the persistence port for quotes and their items. It is
// an outbound port; implementations must make each single-quote update
// atomic (item mutation and the recomputed total are written together).
// Lookups return (nil, nil) when the record does not exist.
type QuoteRepository interface {
	// CreateQuote inserts a new draft quote and returns it.
	CreateQuote(ctx context.Context) (*domain.Quote, error)
	// GetQuote returns a quote with its items, or nil when not found.
	GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	// AddItem appends an item and stores the recomputed quote total in one
	// transaction.
	AddItem(ctx context.Context, item *domain.QuoteItem, newTotal decimal.Decimal) error
	// RemoveItem deletes an item by id and stores the recomputed quote
	// total. It reports false when the item did not exist.
	RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID, newTotal decimal.Decimal) (bool, error)
	// SubmitQuote persists contact details and the draft→submitted
	// transition with its timestamp.
	SubmitQuote(ctx context.Context, quoteID uuid.UUID, contact ContactDetails, at time.Time) error
	// UpdateStatus persists a staff status transition, stamping the
	// status timestamp and, for rejections, the reason.
	UpdateStatus(ctx context.Context, quoteID uuid.UUID, status domain.Status, reason string, at time.Time) error
}
