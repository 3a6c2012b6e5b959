package plans

import "time"

// ExpiryFor computes when a plan bought at ref runs out. FREE has no
// expiry concept and always yields nil.
//
// The month counts are the nominal subscription lengths encoded in the
// historical catalog: a "month" of NORMAL runs 3 calendar months and a
// "month" of PRO runs 2. The asymmetry is intentional.
func ExpiryFor(ref time.Time, tier, duration string) *time.Time {
	if tier == TierFree {
		return nil
	}

	months := 3
	switch {
	case duration == DurationYear:
		months = 12
	case tier == TierPro:
		months = 2
	}

	t := addMonths(ref, months)
	return &t
}

// addMonths advances by calendar months, clamping to the last day of
// the target month. time.AddDate would normalize the overflow instead
// (Feb 29 + 12mo becomes Mar 1); here it becomes Feb 28.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	first := time.Date(y, m+time.Month(months), 1, h, min, sec, t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}
