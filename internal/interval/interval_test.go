package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockRangeOverlaps(t *testing.T) {
	nineToNoon := ClockRange{Start: NewClock(9, 0), End: NewClock(12, 0)}

	tests := []struct {
		name    string
		other   ClockRange
		overlap bool
	}{
		{"identical", ClockRange{NewClock(9, 0), NewClock(12, 0)}, true},
		{"contained", ClockRange{NewClock(10, 0), NewClock(11, 0)}, true},
		{"overlaps start", ClockRange{NewClock(8, 0), NewClock(9, 30)}, true},
		{"overlaps end", ClockRange{NewClock(11, 30), NewClock(13, 0)}, true},
		{"touches at start", ClockRange{NewClock(8, 0), NewClock(9, 0)}, false},
		{"touches at end", ClockRange{NewClock(12, 0), NewClock(14, 0)}, false},
		{"disjoint before", ClockRange{NewClock(7, 0), NewClock(8, 0)}, false},
		{"disjoint after", ClockRange{NewClock(13, 0), NewClock(14, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, nineToNoon.Overlaps(tt.other))
			assert.Equal(t, tt.overlap, tt.other.Overlaps(nineToNoon), "overlap must be symmetric")
		})
	}
}

func TestClockRangeContainsBoundaries(t *testing.T) {
	r := ClockRange{Start: NewClock(9, 0), End: NewClock(17, 0)}

	assert.True(t, r.Contains(NewClock(9, 0)), "start is inclusive")
	assert.True(t, r.Contains(NewClock(16, 59)))
	assert.False(t, r.Contains(NewClock(17, 0)), "end is exclusive")
	assert.False(t, r.Contains(NewClock(8, 59)))
}

func TestClockRangeValid(t *testing.T) {
	assert.True(t, ClockRange{NewClock(9, 0), NewClock(10, 0)}.Valid())
	assert.False(t, ClockRange{NewClock(10, 0), NewClock(10, 0)}.Valid(), "empty range")
	assert.False(t, ClockRange{NewClock(11, 0), NewClock(10, 0)}.Valid(), "inverted range")
	assert.False(t, ClockRange{NewClock(23, 0), Clock(MinutesPerDay + 60)}.Valid(), "crosses midnight")
}

func TestClockRangeSubtract(t *testing.T) {
	day := ClockRange{Start: NewClock(9, 0), End: NewClock(17, 0)}

	t.Run("no break", func(t *testing.T) {
		parts := day.Subtract(nil)
		require.Len(t, parts, 1)
		assert.Equal(t, day, parts[0])
	})

	t.Run("break in the middle", func(t *testing.T) {
		brk := ClockRange{Start: NewClock(12, 0), End: NewClock(13, 0)}
		parts := day.Subtract(&brk)
		require.Len(t, parts, 2)
		assert.Equal(t, ClockRange{NewClock(9, 0), NewClock(12, 0)}, parts[0])
		assert.Equal(t, ClockRange{NewClock(13, 0), NewClock(17, 0)}, parts[1])
	})

	t.Run("break at the start", func(t *testing.T) {
		brk := ClockRange{Start: NewClock(9, 0), End: NewClock(10, 0)}
		parts := day.Subtract(&brk)
		require.Len(t, parts, 1)
		assert.Equal(t, ClockRange{NewClock(10, 0), NewClock(17, 0)}, parts[0])
	})

	t.Run("break covers everything", func(t *testing.T) {
		brk := ClockRange{Start: NewClock(8, 0), End: NewClock(18, 0)}
		assert.Empty(t, day.Subtract(&brk))
	})

	t.Run("disjoint break", func(t *testing.T) {
		brk := ClockRange{Start: NewClock(18, 0), End: NewClock(19, 0)}
		parts := day.Subtract(&brk)
		require.Len(t, parts, 1)
		assert.Equal(t, day, parts[0])
	})
}

func TestTimeRangeOverlaps(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	first := NewTimeRange(base, 30)
	adjacent := NewTimeRange(base.Add(30*time.Minute), 30)
	overlapping := NewTimeRange(base.Add(15*time.Minute), 30)

	assert.False(t, first.Overlaps(adjacent), "back-to-back slots do not overlap")
	assert.True(t, first.Overlaps(overlapping))
	assert.True(t, overlapping.Overlaps(first))
}

func TestTimeRangeContains(t *testing.T) {
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	r := NewTimeRange(start, 60)

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(start.Add(59*time.Minute)))
	assert.False(t, r.Contains(start.Add(60*time.Minute)))
	assert.False(t, r.Contains(start.Add(-time.Minute)))
}
