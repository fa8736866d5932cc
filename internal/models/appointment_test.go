package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusHelpers(t *testing.T) {
	assert.True(t, StatusScheduled.Blocking())
	assert.True(t, StatusConfirmed.Blocking())
	assert.False(t, StatusInProgress.Blocking())
	assert.False(t, StatusCancelled.Blocking())

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusNoShow.Terminal())
	assert.False(t, StatusScheduled.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestParseAppointmentType(t *testing.T) {
	got, ok := ParseAppointmentType("FOLLOW_UP")
	assert.True(t, ok)
	assert.Equal(t, TypeFollowUp, got)

	_, ok = ParseAppointmentType("HOUSE_CALL")
	assert.False(t, ok)
}

func TestAppointmentEndTime(t *testing.T) {
	start := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	apt := &Appointment{StartTime: start, DurationMinutes: 45}

	assert.Equal(t, start.Add(45*time.Minute), apt.EndTime())
	assert.True(t, apt.Interval().Contains(start))
	assert.False(t, apt.Interval().Contains(apt.EndTime()), "the end instant is not occupied")
}

func TestParseDayOfWeek(t *testing.T) {
	day, err := ParseDayOfWeek("WEDNESDAY")
	assert.NoError(t, err)
	assert.Equal(t, time.Wednesday, day)

	day, err = ParseDayOfWeek("monday")
	assert.NoError(t, err, "parsing is case insensitive")
	assert.Equal(t, time.Monday, day)

	_, err = ParseDayOfWeek("FUNDAY")
	assert.Error(t, err)
}
