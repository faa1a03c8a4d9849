package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"adquote/internal/core/domain"
	"adquote/internal/core/port"
)

// stubUseCase returns canned results so handler behaviour can be tested
// without a database.
type stubUseCase struct {
	quote  *domain.Quote
	addErr error
}

func (s *stubUseCase) CreateOrGetQuote(_ context.Context, session *port.Session) (*domain.Quote, error) {
	session.QuoteID = &s.quote.ID
	return s.quote, nil
}

func (s *stubUseCase) GetQuote(_ context.Context, id uuid.UUID) (*domain.Quote, error) {
	if id == s.quote.ID {
		return s.quote, nil
	}
	return nil, nil
}

func (s *stubUseCase) AddItem(_ context.Context, session *port.Session, _ port.ItemInput) (*domain.QuoteItem, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &domain.QuoteItem{
		ID:        uuid.New(),
		QuoteID:   *session.QuoteID,
		TotalCost: decimal.Zero,
	}, nil
}

func (s *stubUseCase) RemoveItem(context.Context, *port.Session, uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubUseCase) Submit(context.Context, *port.Session, port.ContactDetails) (*domain.Quote, error) {
	return s.quote, nil
}

func (s *stubUseCase) UpdateStatus(context.Context, uuid.UUID, domain.Status, string) (*domain.Quote, error) {
	return s.quote, nil
}

func (s *stubUseCase) Preview(context.Context, port.ItemInput) (*port.PreviewResult, error) {
	return &port.PreviewResult{}, nil
}

type stubHandlerCatalog struct{}

func (stubHandlerCatalog) GetFormat(context.Context, string) (*domain.Format, error) {
	return nil, nil
}

func (stubHandlerCatalog) ListFormats(context.Context) ([]domain.Format, error) {
	return []domain.Format{}, nil
}

func (stubHandlerCatalog) GetAvailablePeriods(context.Context, string) ([]domain.CampaignPeriod, error) {
	return []domain.CampaignPeriod{}, nil
}

func (stubHandlerCatalog) GetCreativeTiers(context.Context) ([]string, error) {
	return []string{}, nil
}

func newTestHandler(svc *stubUseCase) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, stubHandlerCatalog{}, logger)
}

func draftQuote() *domain.Quote {
	return &domain.Quote{
		ID:        uuid.New(),
		Status:    domain.StatusDraft,
		TotalCost: decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
}

func TestHandleCreateOrGetQuote_EmptyBody(t *testing.T) {
	svc := &stubUseCase{quote: draftQuote()}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", nil)
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, svc.quote.ID.String(), resp.ID)
}

func TestHandleCreateOrGetQuote_MalformedBodyStillRejected(t *testing.T) {
	h := newTestHandler(&stubUseCase{quote: draftQuote()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func itemBody() *bytes.Buffer {
	return bytes.NewBufferString(`{
        "format_slug": "48-sheet-billboard",
        "quantity": 1,
        "periods": [3, 7],
        "locations": ["London"]
    }`)
}

func TestHandleAddItem_UnknownQuoteIs404(t *testing.T) {
	phantom := uuid.New()
	svc := &stubUseCase{
		quote:  draftQuote(),
		addErr: fmt.Errorf("quote %s: %w", phantom, domain.ErrNotFound),
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/"+phantom.String()+"/items", itemBody())
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleAddItem_NonDraftQuoteIs409(t *testing.T) {
	svc := &stubUseCase{
		quote:  draftQuote(),
		addErr: &domain.StateTransitionError{From: domain.StatusSubmitted, To: domain.StatusDraft},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/"+svc.quote.ID.String()+"/items", itemBody())
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandleAddItem_ResponseNamesOwningQuote(t *testing.T) {
	svc := &stubUseCase{quote: draftQuote()}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/"+svc.quote.ID.String()+"/items", itemBody())
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp itemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, svc.quote.ID.String(), resp.QuoteID)
}
