package scheduling

import (
	"time"
)

// ConflictDetector answers whether a proposed interval collides with an
// existing booking. Only appointments in a blocking status count;
// terminal ones never conflict.
type ConflictDetector struct {
	appointments AppointmentStore
}

// NewConflictDetector creates a conflict detector over the store.
func NewConflictDetector(appointments AppointmentStore) *ConflictDetector {
	return &ConflictDetector{appointments: appointments}
}

// HasConflict reports whether any non-terminal appointment of the
// doctor overlaps the half-open interval [start, end). excludeID, when
// non-empty, skips that appointment so an in-place reschedule does not
// conflict with itself.
func (d *ConflictDetector) HasConflict(doctorID string, start, end time.Time, excludeID string) (bool, error) {
	count, err := d.appointments.CountConflicting(doctorID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
