// Package scheduling implements the doctor-availability and
// appointment-scheduling core: recurring availability windows with
// breaks, conflict detection over half-open intervals, and the
// appointment state machine. It is a library; persistence and the user
// directory sit behind the interfaces in stores.go and the HTTP layer
// lives in internal/handlers.
package scheduling

import (
	"time"

	"clinic-scheduling-server/internal/models"
)

// Collaborators groups the external dependencies of the scheduling
// core. They are passed explicitly rather than resolved from globals.
type Collaborators struct {
	Users        UserDirectory
	Appointments AppointmentStore
	Availability AvailabilityStore
	Audit        AuditSink
}

// Scheduler is the facade used by the API layer. It orchestrates the
// calendar, the conflict detector and the appointment state machine and
// adds aggregate queries; it has no business logic of its own beyond
// the statistics arithmetic.
type Scheduler struct {
	Calendar *Calendar

	appointments *Appointments
	store        AppointmentStore
}

// NewScheduler wires the core components from a set of collaborators.
func NewScheduler(deps Collaborators) *Scheduler {
	calendar := NewCalendar(deps.Availability, deps.Users, deps.Audit)
	conflicts := NewConflictDetector(deps.Appointments)
	appointments := NewAppointments(deps.Appointments, deps.Users, calendar, conflicts, deps.Audit)
	return &Scheduler{
		Calendar:     calendar,
		appointments: appointments,
		store:        deps.Appointments,
	}
}

// BookAppointment validates and creates a new appointment.
func (s *Scheduler) BookAppointment(req CreateRequest) (*models.Appointment, error) {
	return s.appointments.Create(req)
}

// GetAppointment loads a single appointment.
func (s *Scheduler) GetAppointment(id string) (*models.Appointment, error) {
	return s.appointments.Get(id)
}

// RescheduleAppointment moves an existing appointment.
func (s *Scheduler) RescheduleAppointment(id string, req RescheduleRequest, requesterID string) (*models.Appointment, error) {
	return s.appointments.Reschedule(id, req, requesterID)
}

// CancelAppointment cancels an appointment with a reason.
func (s *Scheduler) CancelAppointment(id, reason, requesterID string) (*models.Appointment, error) {
	return s.appointments.Cancel(id, reason, requesterID)
}

// ConfirmAppointment confirms a scheduled appointment.
func (s *Scheduler) ConfirmAppointment(id, requesterID string) (*models.Appointment, error) {
	return s.appointments.Confirm(id, requesterID)
}

// StartAppointment marks a confirmed appointment as in progress.
func (s *Scheduler) StartAppointment(id, requesterID string) (*models.Appointment, error) {
	return s.appointments.Start(id, requesterID)
}

// CompleteAppointment completes an in-progress appointment.
func (s *Scheduler) CompleteAppointment(id, requesterID string) (*models.Appointment, error) {
	return s.appointments.Complete(id, requesterID)
}

// MarkNoShow marks a confirmed appointment the patient missed.
func (s *Scheduler) MarkNoShow(id, requesterID string) (*models.Appointment, error) {
	return s.appointments.MarkNoShow(id, requesterID)
}

// DoctorSchedule returns a doctor's appointments in [start, end).
func (s *Scheduler) DoctorSchedule(doctorID string, start, end time.Time) ([]models.Appointment, error) {
	return s.store.FindByDoctorInRange(doctorID, start, end)
}

// PatientSchedule returns a patient's appointments in [start, end).
func (s *Scheduler) PatientSchedule(patientID string, start, end time.Time) ([]models.Appointment, error) {
	return s.store.FindByPatientInRange(patientID, start, end)
}

// UrgentAppointments returns pending urgent appointments, soonest
// first.
func (s *Scheduler) UrgentAppointments() ([]models.Appointment, error) {
	return s.store.FindUrgent()
}

// Statistics aggregates appointment counts and rates over [start, end).
type Statistics struct {
	Total      int64 `json:"total"`
	Scheduled  int64 `json:"scheduled"`
	Confirmed  int64 `json:"confirmed"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	NoShow     int64 `json:"noShow"`

	CompletionRate   float64 `json:"completionRate"`
	CancellationRate float64 `json:"cancellationRate"`
	NoShowRate       float64 `json:"noShowRate"`

	AverageDurationMinutes float64 `json:"averageDurationMinutes"`
}

// ComputeStatistics counts appointments by status over [start, end) and
// derives completion, cancellation and no-show rates plus the average
// duration.
func (s *Scheduler) ComputeStatistics(start, end time.Time) (*Statistics, error) {
	stats := &Statistics{}
	counts := []struct {
		status models.AppointmentStatus
		into   *int64
	}{
		{models.StatusScheduled, &stats.Scheduled},
		{models.StatusConfirmed, &stats.Confirmed},
		{models.StatusInProgress, &stats.InProgress},
		{models.StatusCompleted, &stats.Completed},
		{models.StatusCancelled, &stats.Cancelled},
		{models.StatusNoShow, &stats.NoShow},
	}
	for _, c := range counts {
		n, err := s.store.CountByStatusInRange(c.status, start, end)
		if err != nil {
			return nil, err
		}
		*c.into = n
		stats.Total += n
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
		stats.CancellationRate = float64(stats.Cancelled) / float64(stats.Total)
		stats.NoShowRate = float64(stats.NoShow) / float64(stats.Total)
	}

	avg, err := s.store.AverageDurationInRange(start, end)
	if err != nil {
		return nil, err
	}
	stats.AverageDurationMinutes = avg
	return stats, nil
}
