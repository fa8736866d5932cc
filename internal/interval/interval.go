// Package interval models half-open time intervals at minute
// resolution. A half-open interval [start, end) includes its start and
// excludes its end, so two intervals that merely touch do not overlap.
package interval

import "time"

// ClockRange is a half-open [Start, End) interval of time-of-day,
// recurring implicitly (the weekday lives on the owning record).
type ClockRange struct {
	Start Clock
	End   Clock
}

// Valid reports whether the range is well formed: both endpoints in a
// single day and Start strictly before End.
func (r ClockRange) Valid() bool {
	return r.Start.Valid() && r.End.Valid() && r.Start < r.End
}

// Overlaps reports whether two half-open ranges share any minute.
func (r ClockRange) Overlaps(o ClockRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Contains reports whether t falls inside the range. The start is
// inclusive, the end exclusive.
func (r ClockRange) Contains(t Clock) bool {
	return r.Start <= t && t < r.End
}

// ContainsRange reports whether o lies entirely within r.
func (r ClockRange) ContainsRange(o ClockRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Subtract removes a break from the range, returning the remaining
// sub-intervals in order. A nil or non-overlapping break returns the
// range unchanged; a break covering the whole range returns nothing.
func (r ClockRange) Subtract(brk *ClockRange) []ClockRange {
	if brk == nil || !r.Overlaps(*brk) {
		return []ClockRange{r}
	}
	var parts []ClockRange
	if r.Start < brk.Start {
		parts = append(parts, ClockRange{Start: r.Start, End: brk.Start})
	}
	if brk.End < r.End {
		parts = append(parts, ClockRange{Start: brk.End, End: r.End})
	}
	return parts
}

// TimeRange is a half-open [Start, End) interval of absolute time.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a range from a start and a duration in minutes.
func NewTimeRange(start time.Time, durationMinutes int) TimeRange {
	return TimeRange{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Valid reports whether Start is strictly before End.
func (r TimeRange) Valid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether two half-open ranges share any instant.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Contains reports whether t falls inside the range, start inclusive
// and end exclusive.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}
