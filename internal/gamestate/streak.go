package gamestate

import "time"

// ComputeStreak returns the streak value after a workout logged at now.
// Comparison is by calendar day in now's location:
//   - no previous workout        -> 1
//   - previous workout yesterday -> current + 1
//   - previous workout today     -> current (same-day repeats never double-count)
//   - gap of two or more days    -> 1
//
// The result is always >= 1.
func ComputeStreak(lastWorkout *time.Time, current int, now time.Time) int {
	if lastWorkout == nil {
		return 1
	}
	switch days := dayOrdinal(now) - dayOrdinal(lastWorkout.In(now.Location())); days {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// WeekStart returns the date of the Monday starting the week of t, at
// midnight in t's location. It identifies the weekly mission epoch.
func WeekStart(t time.Time) time.Time {
	day := truncateToDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayOrdinal numbers the calendar date of t so consecutive dates differ by
// exactly one. Re-anchoring the date in UTC keeps the count stable across
// DST transitions, where local days run 23 or 25 hours.
func dayOrdinal(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
