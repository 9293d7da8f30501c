package utils

import "time"

// Quote is the financial snapshot computed when a booking is created. The
// values are frozen onto the booking and never recomputed.
type Quote struct {
	TotalDays        int32
	TotalAmountCents int32
	DepositCents     int32
}

const day = 24 * time.Hour

// DurationDays returns the span between start and end in whole days,
// rounding any partial day up. A rental from 10:00 to 10:00 the next day is
// exactly 1 day; one extra minute counts a full extra day. Callers validate
// start < end before pricing, so a non-positive span never reaches here.
func DurationDays(start, end time.Time) int32 {
	span := end.Sub(start)
	days := int32(span / day)
	if span%day > 0 {
		days++
	}
	return days
}

// ComputeQuote prices a date range against the item's daily rate and deposit.
// Pure and deterministic: identical inputs always yield identical output.
// No taxes, fees, or discounts; the deposit is carried through unchanged.
func ComputeQuote(start, end time.Time, dailyPriceCents, depositCents int32) Quote {
	days := DurationDays(start, end)
	return Quote{
		TotalDays:        days,
		TotalAmountCents: days * dailyPriceCents,
		DepositCents:     depositCents,
	}
}
