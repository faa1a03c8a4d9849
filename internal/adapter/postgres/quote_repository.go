package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"adquote/internal/core/domain"
	"adquote/internal/core/port"
)

// QuoteRepository implements port.QuoteRepository using pgxpool. Item
// mutations and the recomputed quote total are written in one transaction
// so a quote's stored total never drifts from its items between requests.
type QuoteRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository returns a new repository instance.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

// statusTimestampColumn maps each status to the column stamped on entry.
var statusTimestampColumn = map[domain.Status]string{
	domain.StatusSubmitted: "submitted_at",
	domain.StatusConfirmed: "confirmed_at",
	domain.StatusApproved:  "approved_at",
	domain.StatusContract:  "contract_at",
	domain.StatusActive:    "active_at",
	domain.StatusRejected:  "rejected_at",
}

// CreateQuote inserts a new draft quote.
func (r *QuoteRepository) CreateQuote(ctx context.Context) (*domain.Quote, error) {
	q := &domain.Quote{
		ID:        uuid.New(),
		Status:    domain.StatusDraft,
		Items:     []domain.QuoteItem{},
		TotalCost: decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	q.UpdatedAt = q.CreatedAt
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quotes (id, status, total_cost, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`,
		q.ID, q.Status, q.TotalCost, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuote returns a quote with its items, or nil when not found.
func (r *QuoteRepository) GetQuote(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var q domain.Quote
	err := r.pool.QueryRow(ctx, `
        SELECT id, status, total_cost,
               contact_name, contact_email, contact_phone, company_name, user_id,
               submitted_at, confirmed_at, approved_at, contract_at, active_at,
               rejected_at, rejection_reason, created_at, updated_at
        FROM quotes WHERE id = $1`, id).
		Scan(&q.ID, &q.Status, &q.TotalCost,
			&q.ContactName, &q.ContactEmail, &q.ContactPhone, &q.CompanyName, &q.UserID,
			&q.SubmittedAt, &q.ConfirmedAt, &q.ApprovedAt, &q.ContractAt, &q.ActiveAt,
			&q.RejectedAt, &q.RejectionReason, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, quote_id, format_slug, format_name, quantity, periods, locations,
               needs_creative, creative_assets, creative_tier,
               base_cost, production_cost, creative_cost, total_cost,
               original_cost, discount_pct, discount_amount, created_at
        FROM quote_items WHERE quote_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	q.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.QuoteItem, error) {
		var it domain.QuoteItem
		err := row.Scan(&it.ID, &it.QuoteID, &it.FormatSlug, &it.FormatName,
			&it.Quantity, &it.Periods, &it.Locations,
			&it.NeedsCreative, &it.CreativeAssets, &it.CreativeTier,
			&it.BaseCost, &it.ProductionCost, &it.CreativeCost, &it.TotalCost,
			&it.OriginalCost, &it.DiscountPct, &it.DiscountAmount, &it.CreatedAt)
		return it, err
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// AddItem appends an item and stores the recomputed quote total.
func (r *QuoteRepository) AddItem(ctx context.Context, item *domain.QuoteItem, newTotal decimal.Decimal) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
        INSERT INTO quote_items
            (id, quote_id, format_slug, format_name, quantity, periods, locations,
             needs_creative, creative_assets, creative_tier,
             base_cost, production_cost, creative_cost, total_cost,
             original_cost, discount_pct, discount_amount, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		item.ID, item.QuoteID, item.FormatSlug, item.FormatName,
		item.Quantity, item.Periods, item.Locations,
		item.NeedsCreative, item.CreativeAssets, item.CreativeTier,
		item.BaseCost, item.ProductionCost, item.CreativeCost, item.TotalCost,
		item.OriginalCost, item.DiscountPct, item.DiscountAmount, item.CreatedAt)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`UPDATE quotes SET total_cost = $1, updated_at = $2 WHERE id = $3`,
		newTotal, time.Now().UTC(), item.QuoteID)
	return err
}

// RemoveItem deletes an item and stores the recomputed quote total. It
// reports false when the item did not exist.
func (r *QuoteRepository) RemoveItem(ctx context.Context, quoteID, itemID uuid.UUID, newTotal decimal.Decimal) (found bool, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`DELETE FROM quote_items WHERE id = $1 AND quote_id = $2`, itemID, quoteID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	_, err = tx.Exec(ctx,
		`UPDATE quotes SET total_cost = $1, updated_at = $2 WHERE id = $3`,
		newTotal, time.Now().UTC(), quoteID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// SubmitQuote persists contact details and the draft→submitted transition.
// The status predicate makes the transition all-or-nothing even when two
// sessions race on the same draft.
func (r *QuoteRepository) SubmitQuote(ctx context.Context, quoteID uuid.UUID, contact port.ContactDetails, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
        UPDATE quotes
        SET status = $1, contact_name = $2, contact_email = $3, contact_phone = $4,
            company_name = $5, submitted_at = $6, updated_at = $6
        WHERE id = $7 AND status = $8`,
		domain.StatusSubmitted, contact.Name, contact.Email, contact.Phone,
		contact.Company, at, quoteID, domain.StatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft quote %s: %w", quoteID, domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus persists a staff transition, stamping the status timestamp
// and, for rejections, the reason.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, quoteID uuid.UUID, status domain.Status, reason string, at time.Time) error {
	col, ok := statusTimestampColumn[status]
	if !ok {
		return &domain.StateTransitionError{From: "", To: status}
	}
	query := fmt.Sprintf(
		`UPDATE quotes SET status = $1, %s = $2, updated_at = $2 WHERE id = $3`, col)
	args := []any{status, at, quoteID}
	if status == domain.StatusRejected {
		query = fmt.Sprintf(
			`UPDATE quotes SET status = $1, %s = $2, updated_at = $2, rejection_reason = $4 WHERE id = $3`, col)
		args = append(args, reason)
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote %s: %w", quoteID, domain.ErrNotFound)
	}
	return nil
}
