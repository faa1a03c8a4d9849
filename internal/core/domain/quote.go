package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a Quote.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusApproved  Status = "approved"
	StatusContract  Status = "contract"
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
)

// transitions lists every permitted forward edge. Rejection is allowed from
// any non-terminal state and is handled separately in CanTransitionTo.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusConfirmed},
	StatusConfirmed: {StatusApproved},
	StatusApproved:  {StatusContract, StatusActive},
	StatusContract:  {StatusActive},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusConfirmed, StatusApproved,
		StatusContract, StatusActive, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusActive || s == StatusRejected
}

// CanTransitionTo reports whether moving from s to next is permitted by the
// quote state machine.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusRejected {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// QuoteItem is one line of a campaign: a format booked for a set of
// in-charge periods across a set of locations. Costs are snapshotted when
// the item is added and never recomputed afterwards.
type QuoteItem struct {
	ID             uuid.UUID
	QuoteID        uuid.UUID
	FormatSlug     string
	FormatName     string
	Quantity       int
	Periods        []int
	Locations      []string
	NeedsCreative  bool
	CreativeAssets int
	CreativeTier   string

	BaseCost       decimal.Decimal // media, post-discount
	ProductionCost decimal.Decimal
	CreativeCost   decimal.Decimal
	TotalCost      decimal.Decimal
	OriginalCost   decimal.Decimal // media before discount
	DiscountPct    decimal.Decimal
	DiscountAmount decimal.Decimal

	CreatedAt time.Time
}

// Quote is the aggregate root of a campaign request. TotalCost is always
// the sum of current item totals; it is recomputed on every item change,
// never treated as independent truth.
type Quote struct {
	ID        uuid.UUID
	Status    Status
	Items     []QuoteItem
	TotalCost decimal.Decimal

	ContactName  string
	ContactEmail string
	ContactPhone string
	CompanyName  string
	UserID       *uuid.UUID

	SubmittedAt     *time.Time
	ConfirmedAt     *time.Time
	ApprovedAt      *time.Time
	ContractAt      *time.Time
	ActiveAt        *time.Time
	RejectedAt      *time.Time
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SumItems recomputes the quote total from its current items.
func (q *Quote) SumItems() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Items {
		total = total.Add(q.Items[i].TotalCost)
	}
	return total
}
