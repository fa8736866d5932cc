package scheduling

import (
	"time"

	"clinic-scheduling-server/internal/models"
)

// UserDirectory resolves user ids to role/active/availability flags.
// The scheduling core treats users as opaque beyond these.
type UserDirectory interface {
	GetUserByID(id string) (*models.User, error)
}

// AppointmentStore persists appointments. Create must execute the
// conflict re-check and the insert as a single atomic unit (serialized
// per doctor), otherwise two concurrent bookings for the same slot can
// both commit; implementations return a KindConflict error when the
// recheck fails.
type AppointmentStore interface {
	Create(apt *models.Appointment) error
	Update(apt *models.Appointment) error
	FindByID(id string) (*models.Appointment, error)

	// CountConflicting counts appointments for the doctor in a blocking
	// status whose interval overlaps [start, end), excluding excludeID
	// when non-empty.
	CountConflicting(doctorID string, start, end time.Time, excludeID string) (int64, error)

	FindByDoctorInRange(doctorID string, start, end time.Time) ([]models.Appointment, error)
	FindByPatientInRange(patientID string, start, end time.Time) ([]models.Appointment, error)
	FindUrgent() ([]models.Appointment, error)

	CountByStatusInRange(status models.AppointmentStatus, start, end time.Time) (int64, error)
	AverageDurationInRange(start, end time.Time) (float64, error)
}

// AvailabilityStore persists availability windows. Create must be
// serialized per doctor so concurrent writes cannot both pass the
// overlap check against a stale read.
type AvailabilityStore interface {
	Create(w *models.AvailabilityWindow) error
	Update(w *models.AvailabilityWindow) error
	Delete(id string) error
	FindByID(id string) (*models.AvailabilityWindow, error)

	FindByDoctorAndDay(doctorID string, day time.Weekday) ([]models.AvailabilityWindow, error)
	FindByDoctor(doctorID string) ([]models.AvailabilityWindow, error)
	FindActiveByDay(day time.Weekday) ([]models.AvailabilityWindow, error)
	CountByDoctor(doctorID string) (total, active int64, err error)
}

// AuditSink records actions for the audit trail. Implementations are
// fire-and-forget: a failed write is logged by the sink and never
// surfaces to the business operation.
type AuditSink interface {
	Record(action, actorID, resourceType, resourceID, details string)
}
