// Package queue defines booking lifecycle events published to the message
// broker for external consumers (messaging delivery, dashboards, analytics).
package queue

// BookingCreatedEvent is published when a new booking request is persisted.
// It carries enough context for downstream consumers to notify or log
// without querying the primary database.
type BookingCreatedEvent struct {
	BookingID        int32  `json:"booking_id"`
	ItemID           int32  `json:"item_id"`
	BorrowerID       int32  `json:"borrower_id"`
	LenderID         int32  `json:"lender_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalDays        int32  `json:"total_days"`
	TotalAmountCents int32  `json:"total_amount_cents"`
	DepositCents     int32  `json:"deposit_cents"`
	CreatedAt        string `json:"created_at"`
}

// BookingStatusChangedEvent is published on every lifecycle transition.
type BookingStatusChangedEvent struct {
	BookingID     int32  `json:"booking_id"`
	ItemID        int32  `json:"item_id"`
	BorrowerID    int32  `json:"borrower_id"`
	LenderID      int32  `json:"lender_id"`
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
	PaymentStatus string `json:"payment_status"`
	Reason        string `json:"reason,omitempty"`
	ChangedAt     string `json:"changed_at"`
}
