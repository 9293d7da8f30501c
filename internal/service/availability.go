package service

import (
	"time"

	"lendaround-backend/internal/domain"
)

// CheckAvailability decides whether the requested range may be booked
// against the item: the range must be sane, lie entirely within one of the
// item's published availability windows, and not intersect any occupying
// booking (excluding excludeBookingID when re-validating an update).
//
// Pure read-and-decide over data the caller already loaded. On its own this
// is not enough to prevent double-booking under concurrency; the booking
// service re-runs it inside the per-item guard before inserting.
func CheckAvailability(item *domain.Item, occupying []domain.Booking, start, end time.Time, excludeBookingID int32) error {
	if !start.Before(end) {
		return domain.Validationf("start date must be before end date")
	}

	covered := false
	for _, w := range item.Availability {
		if w.Covers(start, end) {
			covered = true
			break
		}
	}
	if !covered {
		return domain.Validationf("item is not available in the selected period")
	}

	for i := range occupying {
		b := &occupying[i]
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}
		if !b.Status.IsOccupying() {
			continue
		}
		if b.Overlaps(start, end) {
			return domain.Conflictf("item is not available for the selected dates")
		}
	}
	return nil
}
