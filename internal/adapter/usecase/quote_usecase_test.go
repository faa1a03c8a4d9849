package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"adquote/internal/core/domain"
	"adquote/internal/core/port"
)

// fakeQuoteRepo is an in-memory port.QuoteRepository.
type fakeQuoteRepo struct {
	quotes map[uuid.UUID]*domain.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[uuid.UUID]*domain.Quote)}
}

func (r *fakeQuoteRepo) CreateQuote(context.Context) (*domain.Quote, error) {
	q := &domain.Quote{
		ID:        uuid.New(),
		Status:    domain.StatusDraft,
		TotalCost: decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
	r.quotes[q.ID] = q
	return q, nil
}

func (r *fakeQuoteRepo) GetQuote(_ context.Context, id uuid.UUID) (*domain.Quote, error) {
	q, ok := r.quotes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	cp.Items = append([]domain.QuoteItem(nil), q.Items...)
	return &cp, nil
}

func (r *fakeQuoteRepo) AddItem(_ context.Context, item *domain.QuoteItem, newTotal decimal.Decimal) error {
	q := r.quotes[item.QuoteID]
	q.Items = append(q.Items, *item)
	q.TotalCost = newTotal
	return nil
}

func (r *fakeQuoteRepo) RemoveItem(_ context.Context, quoteID, itemID uuid.UUID, newTotal decimal.Decimal) (bool, error) {
	q := r.quotes[quoteID]
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			q.TotalCost = newTotal
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeQuoteRepo) SubmitQuote(_ context.Context, quoteID uuid.UUID, contact port.ContactDetails, at time.Time) error {
	q := r.quotes[quoteID]
	q.Status = domain.StatusSubmitted
	q.SubmittedAt = &at
	q.ContactName = contact.Name
	q.ContactEmail = contact.Email
	return nil
}

func (r *fakeQuoteRepo) UpdateStatus(_ context.Context, quoteID uuid.UUID, status domain.Status, reason string, at time.Time) error {
	q := r.quotes[quoteID]
	q.Status = status
	if status == domain.StatusRejected {
		q.RejectionReason = reason
	}
	return nil
}

// fakeCatalog serves a single billboard format.
type fakeCatalog struct {
	format *domain.Format
}

func (c *fakeCatalog) GetFormat(_ context.Context, slug string) (*domain.Format, error) {
	if c.format != nil && c.format.Slug == slug {
		return c.format, nil
	}
	return nil, nil
}

func (c *fakeCatalog) ListFormats(context.Context) ([]domain.Format, error) {
	if c.format == nil {
		return []domain.Format{}, nil
	}
	return []domain.Format{*c.format}, nil
}

func (c *fakeCatalog) GetAvailablePeriods(context.Context, string) ([]domain.CampaignPeriod, error) {
	return []domain.CampaignPeriod{}, nil
}

func (c *fakeCatalog) GetCreativeTiers(context.Context) ([]string, error) {
	return []string{"standard", "premium"}, nil
}

func newTestUseCase() (*QuoteUseCase, *fakeQuoteRepo) {
	repo := newFakeQuoteRepo()
	catalog := &fakeCatalog{format: &domain.Format{
		Slug: "48-sheet-billboard",
		Name: "48 Sheet Billboard",
		RateTable: map[string]domain.RateValue{
			"London":     domain.FlatRate(decimal.NewFromInt(500)),
			"Manchester": domain.FlatRate(decimal.NewFromInt(500)),
		},
		ProductionRate: decimal.NewFromInt(95),
		CreativeCosts:  map[string]decimal.Decimal{"standard": decimal.NewFromInt(250)},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewQuoteUseCase(repo, catalog, logger), repo
}

func validItem() port.ItemInput {
	return port.ItemInput{
		FormatSlug: "48-sheet-billboard",
		Quantity:   2,
		Periods:    []int{3, 7},
		Locations:  []string{"London"},
	}
}

func TestCreateOrGetQuote_Idempotent(t *testing.T) {
	svc, _ := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	first, err := svc.CreateOrGetQuote(ctx, session)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, first.Status)
	require.NotNil(t, session.QuoteID)

	second, err := svc.CreateOrGetQuote(ctx, session)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestAddItem_SnapshotsCostsAndRecomputesTotal(t *testing.T) {
	svc, repo := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	item, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)

	// media 500×2 periods, production 95×2 units.
	require.True(t, decimal.NewFromInt(1000).Equal(item.BaseCost), "got %s", item.BaseCost)
	require.True(t, decimal.NewFromInt(190).Equal(item.ProductionCost))
	require.True(t, decimal.NewFromInt(1190).Equal(item.TotalCost))

	quote := repo.quotes[*session.QuoteID]
	require.Len(t, quote.Items, 1)
	require.True(t, quote.TotalCost.Equal(item.TotalCost))

	// A second item doubles the quote total.
	_, err = svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(2380).Equal(repo.quotes[*session.QuoteID].TotalCost))
}

func TestAddItem_UnknownQuoteIDIsNotFound(t *testing.T) {
	svc, repo := newTestUseCase()
	phantom := uuid.New()
	session := &port.Session{QuoteID: &phantom}

	_, err := svc.AddItem(context.Background(), session, validItem())
	require.ErrorIs(t, err, domain.ErrNotFound)

	// The addressed id is authoritative: no draft is silently created and
	// the session still points at the phantom quote.
	require.Empty(t, repo.quotes)
	require.Equal(t, phantom, *session.QuoteID)
}

func TestAddItem_NonDraftQuoteRejected(t *testing.T) {
	svc, repo := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	item, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)
	require.Equal(t, *session.QuoteID, item.QuoteID)

	_, err = svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs", Email: "jo@example.com"})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, session, validItem())
	var tErr *domain.StateTransitionError
	require.ErrorAs(t, err, &tErr)
	require.Equal(t, domain.StatusSubmitted, tErr.From)

	// The submitted quote is untouched and no second quote appeared.
	require.Len(t, repo.quotes, 1)
	require.Len(t, repo.quotes[*session.QuoteID].Items, 1)
}

func TestAddItem_Validation(t *testing.T) {
	svc, _ := newTestUseCase()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*port.ItemInput)
	}{
		{"zero quantity", func(in *port.ItemInput) { in.Quantity = 0 }},
		{"no periods", func(in *port.ItemInput) { in.Periods = nil }},
		{"no locations", func(in *port.ItemInput) { in.Locations = nil }},
		{"no format", func(in *port.ItemInput) { in.FormatSlug = "" }},
		{"unknown format", func(in *port.ItemInput) { in.FormatSlug = "skywriting" }},
		{"creative without assets", func(in *port.ItemInput) { in.NeedsCreative = true; in.CreativeAssets = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validItem()
			tc.mutate(&in)
			_, err := svc.AddItem(ctx, &port.Session{}, in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestRemoveItem_UnknownIDReturnsFalseWithoutMutation(t *testing.T) {
	svc, repo := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	_, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)

	before := repo.quotes[*session.QuoteID].TotalCost

	removed, err := svc.RemoveItem(ctx, session, uuid.New())
	require.NoError(t, err)
	require.False(t, removed)
	require.Len(t, repo.quotes[*session.QuoteID].Items, 2)
	require.True(t, before.Equal(repo.quotes[*session.QuoteID].TotalCost))
}

func TestRemoveItem_RecomputesTotal(t *testing.T) {
	svc, repo := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	first, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)

	removed, err := svc.RemoveItem(ctx, session, first.ID)
	require.NoError(t, err)
	require.True(t, removed)

	quote := repo.quotes[*session.QuoteID]
	require.Len(t, quote.Items, 1)
	require.True(t, quote.TotalCost.Equal(second.TotalCost))
}

func TestSubmit_EmptyQuoteRejected(t *testing.T) {
	svc, repo := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	_, err := svc.CreateOrGetQuote(ctx, session)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs", Email: "jo@example.com"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, domain.StatusDraft, repo.quotes[*session.QuoteID].Status)
}

func TestSubmit_RequiresContactDetails(t *testing.T) {
	svc, _ := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	_, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)

	var vErr *domain.ValidationError
	_, err = svc.Submit(ctx, session, port.ContactDetails{Email: "jo@example.com"})
	require.ErrorAs(t, err, &vErr)
	_, err = svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs"})
	require.ErrorAs(t, err, &vErr)
}

func TestSubmit_TransitionsDraftToSubmitted(t *testing.T) {
	svc, _ := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	_, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)

	quote, err := svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs", Email: "jo@example.com"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSubmitted, quote.Status)
	require.NotNil(t, quote.SubmittedAt)

	// A submitted quote cannot be submitted again.
	_, err = svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs", Email: "jo@example.com"})
	var tErr *domain.StateTransitionError
	require.ErrorAs(t, err, &tErr)
}

func TestUpdateStatus_RejectionNeedsReason(t *testing.T) {
	svc, repo := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	_, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs", Email: "jo@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, *session.QuoteID, domain.StatusRejected, "  ")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, domain.StatusSubmitted, repo.quotes[*session.QuoteID].Status)

	quote, err := svc.UpdateStatus(ctx, *session.QuoteID, domain.StatusRejected, "budget withdrawn")
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, quote.Status)
	require.Equal(t, "budget withdrawn", quote.RejectionReason)
}

func TestUpdateStatus_FollowsStateMachine(t *testing.T) {
	svc, _ := newTestUseCase()
	ctx := context.Background()
	session := &port.Session{}

	_, err := svc.AddItem(ctx, session, validItem())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, session, port.ContactDetails{Name: "Jo Bloggs", Email: "jo@example.com"})
	require.NoError(t, err)
	id := *session.QuoteID

	// Skipping confirmed is rejected with both statuses named.
	_, err = svc.UpdateStatus(ctx, id, domain.StatusApproved, "")
	var tErr *domain.StateTransitionError
	require.ErrorAs(t, err, &tErr)
	require.Equal(t, domain.StatusSubmitted, tErr.From)
	require.Equal(t, domain.StatusApproved, tErr.To)

	for _, next := range []domain.Status{
		domain.StatusConfirmed, domain.StatusApproved, domain.StatusContract, domain.StatusActive,
	} {
		_, err = svc.UpdateStatus(ctx, id, next, "")
		require.NoError(t, err)
	}

	// Active is terminal.
	_, err = svc.UpdateStatus(ctx, id, domain.StatusRejected, "too late")
	require.ErrorAs(t, err, &tErr)
}

func TestUpdateStatus_UnknownQuote(t *testing.T) {
	svc, _ := newTestUseCase()
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.StatusConfirmed, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreview_IncompleteConfigurationDegrades(t *testing.T) {
	svc, _ := newTestUseCase()

	res, err := svc.Preview(context.Background(), port.ItemInput{})
	require.NoError(t, err)
	require.True(t, res.Totals.TotalCost.IsZero())
	require.Equal(t, 0, res.Capacity.Max)
}

func TestPreview_CapacityAndVAT(t *testing.T) {
	svc, _ := newTestUseCase()

	res, err := svc.Preview(context.Background(), port.ItemInput{
		FormatSlug: "48-sheet-billboard",
		Quantity:   2,
		Periods:    []int{3, 7},
		Locations:  []string{"London", "Manchester"},
	})
	require.NoError(t, err)

	require.Equal(t, 4, res.Capacity.Max)
	require.Equal(t, 2, res.Capacity.Used)
	// media 2000 + production 95×2×2 locations = 2380, VAT 20%.
	require.True(t, decimal.NewFromInt(2380).Equal(res.Totals.TotalCost), "got %s", res.Totals.TotalCost)
	require.True(t, res.Display.VAT.Equal(res.Totals.TotalCost.Mul(decimal.NewFromFloat(0.20))))
}
