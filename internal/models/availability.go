package models

import (
	"fmt"
	"strings"
	"time"

	"clinic-scheduling-server/internal/interval"
)

// Bounds for availability window attributes.
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 120
	MaxAppointmentsPerDay  = 50

	DefaultSlotDurationMinutes   = 30
	DefaultMaxAppointmentsPerDay = 20
)

// AvailabilityWindow is a weekly recurring time-of-day interval during
// which a doctor accepts appointments. An inactive window with
// IsActive=false doubles as an ad hoc block (vacation, one-off absence)
// inserted by MarkUnavailable.
type AvailabilityWindow struct {
	BaseModel
	DoctorID              string          `gorm:"size:36;index;not null" json:"doctorId"`
	DayOfWeek             time.Weekday    `gorm:"not null" json:"dayOfWeek"`
	StartTime             interval.Clock  `gorm:"not null" json:"startTime"`
	EndTime               interval.Clock  `gorm:"not null" json:"endTime"`
	IsActive              bool            `gorm:"default:true" json:"isActive"`
	SlotDurationMinutes   int             `gorm:"default:30" json:"slotDurationMinutes"`
	MaxAppointmentsPerDay int             `gorm:"default:20" json:"maxAppointmentsPerDay"`
	BreakStartTime        *interval.Clock `json:"breakStartTime,omitempty"`
	BreakEndTime          *interval.Clock `json:"breakEndTime,omitempty"`
	Notes                 string          `gorm:"type:text" json:"notes"`
}

// Range returns the window's half-open working interval.
func (w *AvailabilityWindow) Range() interval.ClockRange {
	return interval.ClockRange{Start: w.StartTime, End: w.EndTime}
}

// Break returns the break sub-interval, or nil when none is set.
func (w *AvailabilityWindow) Break() *interval.ClockRange {
	if w.BreakStartTime == nil || w.BreakEndTime == nil {
		return nil
	}
	return &interval.ClockRange{Start: *w.BreakStartTime, End: *w.BreakEndTime}
}

// CoversTime reports whether the window makes t bookable: t falls inside
// the working interval and outside the break.
func (w *AvailabilityWindow) CoversTime(t interval.Clock) bool {
	if !w.Range().Contains(t) {
		return false
	}
	if brk := w.Break(); brk != nil && brk.Contains(t) {
		return false
	}
	return true
}

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseDayOfWeek parses an upper-case English day name.
func ParseDayOfWeek(s string) (time.Weekday, error) {
	if day, ok := weekdayNames[strings.ToUpper(s)]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("invalid day of week %q", s)
}
