package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
	"adquote/internal/core/port"
	"adquote/internal/core/pricing"
)

// QuoteUseCase implements port.QuoteUseCase. It orchestrates the catalog,
// the pricing engine and the repository to manage a quote through its
// lifecycle. All pricing happens at add time; stored item costs are a
// snapshot.
type QuoteUseCase struct {
	repo    port.QuoteRepository
	catalog port.Catalog
	agg     *pricing.Aggregator
	logger  *slog.Logger
}

// NewQuoteUseCase creates the usecase with its collaborators.
func NewQuoteUseCase(repo port.QuoteRepository, catalog port.Catalog, logger *slog.Logger) *QuoteUseCase {
	return &QuoteUseCase{
		repo:    repo,
		catalog: catalog,
		agg:     pricing.NewAggregator(logger),
		logger:  logger,
	}
}

// CreateOrGetQuote returns the session's draft quote, creating one when the
// session carries no quote id or the referenced quote is gone or no longer
// a draft. Repeat calls with an intact session return the same quote.
func (u *QuoteUseCase) CreateOrGetQuote(ctx context.Context, session *port.Session) (*domain.Quote, error) {
	if session.QuoteID != nil {
		q, err := u.repo.GetQuote(ctx, *session.QuoteID)
		if err != nil {
			return nil, err
		}
		if q != nil && q.Status == domain.StatusDraft {
			return q, nil
		}
	}
	q, err := u.repo.CreateQuote(ctx)
	if err != nil {
		return nil, err
	}
	session.QuoteID = &q.ID
	u.logger.Info("draft quote created", slog.String("quote_id", q.ID.String()))
	return q, nil
}

// GetQuote returns a quote by id, or nil when not found.
func (u *QuoteUseCase) GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	return u.repo.GetQuote(ctx, id)
}

// AddItem validates the configuration, snapshots its costs and appends it
// to the session's draft quote, recomputing the quote total. A session
// without a quote id lazily materialises a draft; a session that names a
// quote is authoritative — an unknown id is NotFound and a non-draft quote
// rejects the add, never silently re-targeting a fresh draft.
func (u *QuoteUseCase) AddItem(ctx context.Context, session *port.Session, in port.ItemInput) (*domain.QuoteItem, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}
	format, err := u.catalog.GetFormat(ctx, in.FormatSlug)
	if err != nil {
		return nil, err
	}
	if format == nil {
		return nil, domain.NewValidationError("format", fmt.Sprintf("unknown format %q", in.FormatSlug))
	}

	var quote *domain.Quote
	if session.QuoteID != nil {
		quote, err = u.repo.GetQuote(ctx, *session.QuoteID)
		if err != nil {
			return nil, err
		}
		if quote == nil {
			return nil, fmt.Errorf("quote %s: %w", session.QuoteID, domain.ErrNotFound)
		}
	} else {
		quote, err = u.CreateOrGetQuote(ctx, session)
		if err != nil {
			return nil, err
		}
	}
	if quote.Status != domain.StatusDraft {
		return nil, &domain.StateTransitionError{From: quote.Status, To: domain.StatusDraft}
	}

	costs := u.agg.ItemCosts(pricing.ItemConfig{
		Format:         format,
		Quantity:       in.Quantity,
		Periods:        in.Periods,
		Locations:      in.Locations,
		NeedsCreative:  in.NeedsCreative,
		CreativeAssets: in.CreativeAssets,
		CreativeTier:   in.CreativeTier,
	})

	item := &domain.QuoteItem{
		ID:             uuid.New(),
		QuoteID:        quote.ID,
		FormatSlug:     format.Slug,
		FormatName:     format.Name,
		Quantity:       in.Quantity,
		Periods:        in.Periods,
		Locations:      in.Locations,
		NeedsCreative:  in.NeedsCreative,
		CreativeAssets: in.CreativeAssets,
		CreativeTier:   in.CreativeTier,
		BaseCost:       costs.MediaPrice,
		ProductionCost: costs.ProductionCost,
		CreativeCost:   costs.CreativeCost,
		TotalCost:      costs.TotalCost,
		OriginalCost:   costs.OriginalCost,
		DiscountAmount: costs.TotalDiscount,
		DiscountPct:    discountPct(costs),
		CreatedAt:      time.Now().UTC(),
	}

	newTotal := quote.SumItems().Add(item.TotalCost)
	if err = u.repo.AddItem(ctx, item, newTotal); err != nil {
		return nil, err
	}
	u.logger.Info("quote item added",
		slog.String("quote_id", quote.ID.String()),
		slog.String("item_id", item.ID.String()),
		slog.String("total_cost", item.TotalCost.String()))
	return item, nil
}

// RemoveItem deletes an item from the session's quote and recomputes the
// quote total. An unknown item id reports false with no error.
func (u *QuoteUseCase) RemoveItem(ctx context.Context, session *port.Session, itemID uuid.UUID) (bool, error) {
	if session.QuoteID == nil {
		return false, nil
	}
	quote, err := u.repo.GetQuote(ctx, *session.QuoteID)
	if err != nil {
		return false, err
	}
	if quote == nil || quote.Status != domain.StatusDraft {
		return false, nil
	}

	newTotal := decimal.Zero
	found := false
	for i := range quote.Items {
		if quote.Items[i].ID == itemID {
			found = true
			continue
		}
		newTotal = newTotal.Add(quote.Items[i].TotalCost)
	}
	if !found {
		return false, nil
	}
	return u.repo.RemoveItem(ctx, quote.ID, itemID, newTotal)
}

// Submit transitions the session's draft to submitted, capturing contact
// details. The quote must have at least one item and a contact name and
// email.
func (u *QuoteUseCase) Submit(ctx context.Context, session *port.Session, contact port.ContactDetails) (*domain.Quote, error) {
	if session.QuoteID == nil {
		return nil, fmt.Errorf("quote: %w", domain.ErrNotFound)
	}
	quote, err := u.repo.GetQuote(ctx, *session.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, fmt.Errorf("quote %s: %w", session.QuoteID, domain.ErrNotFound)
	}
	if quote.Status != domain.StatusDraft {
		return nil, &domain.StateTransitionError{From: quote.Status, To: domain.StatusSubmitted}
	}
	if len(quote.Items) == 0 {
		return nil, domain.NewValidationError("items", "cannot submit an empty quote")
	}
	if strings.TrimSpace(contact.Name) == "" {
		return nil, domain.NewValidationError("contact_name", "contact name is required")
	}
	if strings.TrimSpace(contact.Email) == "" {
		return nil, domain.NewValidationError("contact_email", "contact email is required")
	}

	now := time.Now().UTC()
	if err = u.repo.SubmitQuote(ctx, quote.ID, contact, now); err != nil {
		return nil, err
	}
	quote.Status = domain.StatusSubmitted
	quote.SubmittedAt = &now
	quote.ContactName = contact.Name
	quote.ContactEmail = contact.Email
	quote.ContactPhone = contact.Phone
	quote.CompanyName = contact.Company
	u.logger.Info("quote submitted", slog.String("quote_id", quote.ID.String()))
	return quote, nil
}

// UpdateStatus performs a staff transition. The target must be reachable
// from the current status and a rejection must carry a reason; otherwise
// nothing is mutated.
func (u *QuoteUseCase) UpdateStatus(ctx context.Context, quoteID uuid.UUID, status domain.Status, reason string) (*domain.Quote, error) {
	quote, err := u.repo.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, fmt.Errorf("quote %s: %w", quoteID, domain.ErrNotFound)
	}
	if !quote.Status.CanTransitionTo(status) {
		return nil, &domain.StateTransitionError{From: quote.Status, To: status}
	}
	if status == domain.StatusRejected && strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidationError("reason", "a rejection reason is required")
	}

	now := time.Now().UTC()
	if err = u.repo.UpdateStatus(ctx, quoteID, status, reason, now); err != nil {
		return nil, err
	}
	applyTransition(quote, status, reason, now)
	u.logger.Info("quote status updated",
		slog.String("quote_id", quoteID.String()),
		slog.String("status", string(status)))
	return quote, nil
}

// Preview evaluates capacity and pricing for a configuration without
// persisting anything. Unknown formats and empty selections degrade to
// zero/over-limit results so the caller can render progressively.
func (u *QuoteUseCase) Preview(ctx context.Context, in port.ItemInput) (*port.PreviewResult, error) {
	var format *domain.Format
	if in.FormatSlug != "" {
		f, err := u.catalog.GetFormat(ctx, in.FormatSlug)
		if err != nil {
			return nil, err
		}
		format = f
	}

	capacity := pricing.LocationCapacity(in.Quantity, in.Periods, in.Locations)
	u.logger.Debug("capacity evaluated",
		slog.String("format", in.FormatSlug),
		slog.Int("used", capacity.Used),
		slog.Int("max", capacity.Max),
		slog.String("status", string(capacity.Status)))

	totals := u.agg.ItemCosts(pricing.ItemConfig{
		Format:         format,
		Quantity:       in.Quantity,
		Periods:        in.Periods,
		Locations:      in.Locations,
		NeedsCreative:  in.NeedsCreative,
		CreativeAssets: in.CreativeAssets,
		CreativeTier:   in.CreativeTier,
	})

	costPerAsset := decimal.Zero
	if format != nil {
		costPerAsset = pricing.CreativeCost(format, 1, in.CreativeTier).CostPerUnit
	}
	sites := in.Quantity * len(in.Periods)
	creative := pricing.CreativeCapacity(sites, in.CreativeAssets, in.NeedsCreative, costPerAsset, totals.MediaPrice)

	return &port.PreviewResult{
		Capacity: capacity,
		Creative: creative,
		Totals:   totals,
		Display:  pricing.DisplayTotals(totals.TotalCost),
	}, nil
}

func validateItemInput(in port.ItemInput) error {
	if in.FormatSlug == "" {
		return domain.NewValidationError("format", "a format is required")
	}
	if in.Quantity < 1 {
		return domain.NewValidationError("quantity", "quantity must be at least 1")
	}
	if len(in.Periods) == 0 {
		return domain.NewValidationError("periods", "select at least one campaign period")
	}
	if len(in.Locations) == 0 {
		return domain.NewValidationError("locations", "select at least one location")
	}
	if in.NeedsCreative && in.CreativeAssets < 1 {
		return domain.NewValidationError("creative_assets", "creative requests need at least one asset")
	}
	return nil
}

func discountPct(t pricing.Totals) decimal.Decimal {
	if !t.OriginalCost.IsPositive() || t.TotalDiscount.IsZero() {
		return decimal.Zero
	}
	return t.TotalDiscount.Div(t.OriginalCost).Mul(decimal.NewFromInt(100))
}

func applyTransition(q *domain.Quote, status domain.Status, reason string, at time.Time) {
	q.Status = status
	switch status {
	case domain.StatusConfirmed:
		q.ConfirmedAt = &at
	case domain.StatusApproved:
		q.ApprovedAt = &at
	case domain.StatusContract:
		q.ContractAt = &at
	case domain.StatusActive:
		q.ActiveAt = &at
	case domain.StatusRejected:
		q.RejectedAt = &at
		q.RejectionReason = reason
	}
}
