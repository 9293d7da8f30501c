package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusOngoing   BookingStatus = "ONGOING"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusDisputed  BookingStatus = "DISPUTED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid          PaymentStatus = "UNPAID"
	PaymentStatusPaid            PaymentStatus = "PAID"
	PaymentStatusDepositRefunded PaymentStatus = "DEPOSIT_REFUNDED"
)

// OccupyingStatuses are the statuses that hold the item's calendar and must
// be checked for date overlap. DISPUTED is absent on purpose: a disputed
// booking has already concluded physically and must not block relisting.
var OccupyingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusOngoing,
}

// validTransitions defines the lifecycle state machine. A status missing a
// target here has no legal way to reach it.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusOngoing, BookingStatusCancelled},
	BookingStatusOngoing:   {BookingStatusCompleted, BookingStatusDisputed},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
	BookingStatusDisputed:  {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsOccupying returns true if the status reserves the item's calendar.
func (s BookingStatus) IsOccupying() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	return ok && len(allowed) == 0
}

// CanTransitionTo returns true if the lifecycle table contains the edge.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionEffect carries the side effects a legal transition applies to
// the booking alongside the status change itself.
type TransitionEffect struct {
	PaymentStatus      *PaymentStatus
	RecordCancellation bool
}

// ApplyTransition validates the edge from -> to against the lifecycle table
// and returns the side effects it carries. It is a pure function; persisting
// the result is the caller's responsibility.
func ApplyTransition(from, to BookingStatus) (TransitionEffect, error) {
	if !from.CanTransitionTo(to) {
		return TransitionEffect{}, InvalidTransitionf("cannot transition booking from %s to %s", from, to)
	}

	var effect TransitionEffect
	switch {
	case from == BookingStatusPending && to == BookingStatusConfirmed:
		paid := PaymentStatusPaid
		effect.PaymentStatus = &paid
	case to == BookingStatusCancelled:
		effect.RecordCancellation = true
	case from == BookingStatusOngoing && to == BookingStatusCompleted:
		refunded := PaymentStatusDepositRefunded
		effect.PaymentStatus = &refunded
	}
	return effect, nil
}

type Booking struct {
	ID         int32 `json:"id"`
	ItemID     int32 `json:"item_id"`
	BorrowerID int32 `json:"borrower_id"`
	// LenderID is denormalized from the item's owner at creation time and
	// never changes, even if the item later changes hands.
	LenderID  int32     `json:"lender_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	// Financial snapshot fields are frozen at creation time. Later changes to
	// the item's price or deposit do not affect existing bookings.
	TotalDays          int32         `json:"total_days"`
	TotalAmountCents   int32         `json:"total_amount_cents"`
	DepositCents       int32         `json:"deposit_cents"`
	Status             BookingStatus `json:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CreatedOn          time.Time     `json:"created_on"`
	UpdatedOn          time.Time     `json:"updated_on"`
}

// Overlaps reports whether the booking's half-open range [StartDate, EndDate)
// intersects [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}
