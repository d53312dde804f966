package policy

import "time"

// Day arithmetic for anniversaries. Both operations normalize "now" and the
// target date to local midnight before differencing so the result is a whole
// day count regardless of the time of day either side carries.
//
// Two sign conventions are in use and both are load-bearing:
//   - ElapsedDays (Anniversary entities, anniversary timelines): days since
//     the date, clamped at 0 for future dates.
//   - SignedDays (Image anniversary annotations): days until the date,
//     negative for the past, positive for the future.

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ElapsedDaysAt returns the whole days elapsed from date to now, never
// negative. A nil date yields nil.
func ElapsedDaysAt(date *time.Time, now time.Time) *int {
	if date == nil {
		return nil
	}
	diff := int(midnight(now).Sub(midnight(*date)).Hours() / 24)
	if diff < 0 {
		diff = 0
	}
	return &diff
}

// SignedDaysAt returns the whole days from now until date: negative when the
// date has passed, zero today, positive when it is still to come. A nil date
// yields nil.
func SignedDaysAt(date *time.Time, now time.Time) *int {
	if date == nil {
		return nil
	}
	diff := int(midnight(*date).Sub(midnight(now)).Hours() / 24)
	return &diff
}

// ElapsedDays is ElapsedDaysAt against the wall clock.
func ElapsedDays(date *time.Time) *int {
	return ElapsedDaysAt(date, time.Now())
}

// SignedDays is SignedDaysAt against the wall clock.
func SignedDays(date *time.Time) *int {
	return SignedDaysAt(date, time.Now())
}
