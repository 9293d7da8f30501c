package domain

import "time"

// AvailabilityWindow is a date range the owner has published the item as
// bookable, independent of any existing booking. Windows are closed on both
// ends: a request [start, end) fits a window iff Start <= start && End >= end.
type AvailabilityWindow struct {
	ID     int32     `json:"id"`
	ItemID int32     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Covers reports whether the window fully contains the requested range.
func (w AvailabilityWindow) Covers(start, end time.Time) bool {
	return !w.Start.After(start) && !w.End.Before(end)
}

// Item is the booking core's read-only view of a listed item. Catalog
// management (title, images, rules, category edits) lives elsewhere; this
// service only reads the fields that drive arbitration and pricing.
type Item struct {
	ID              int32                `json:"id"`
	OwnerID         int32                `json:"owner_id"`
	Name            string               `json:"name"`
	DailyPriceCents int32                `json:"daily_price_cents"`
	DepositCents    int32                `json:"deposit_cents"`
	IsAvailable     bool                 `json:"is_available"`
	Availability    []AvailabilityWindow `json:"availability"`
	CreatedOn       time.Time            `json:"created_on"`
	UpdatedOn       time.Time            `json:"updated_on"`
}
