package scheduling

import (
	"time"

	"clinic-scheduling-server/internal/interval"
	"clinic-scheduling-server/internal/models"
)

// CreateRequest carries the fields needed to book an appointment.
type CreateRequest struct {
	DoctorID        string
	PatientID       string
	StartTime       time.Time
	DurationMinutes int
	Type            models.AppointmentType
	Reason          string
	Notes           string
	IsUrgent        bool
	IsFollowUp      bool
	FollowUpOf      *string
	CreatedBy       string
}

// RescheduleRequest carries the changes for an in-place reschedule.
// Nil fields keep their current value.
type RescheduleRequest struct {
	StartTime       *time.Time
	DurationMinutes *int
	DoctorID        *string
}

// Appointments owns the appointment lifecycle: it validates creation
// against the availability calendar and the conflict detector, and
// enforces the legal state transitions.
//
// Legal transitions:
//
//	SCHEDULED -> CONFIRMED -> IN_PROGRESS -> COMPLETED
//	SCHEDULED|CONFIRMED    -> CANCELLED
//	CONFIRMED              -> NO_SHOW
type Appointments struct {
	store     AppointmentStore
	users     UserDirectory
	calendar  *Calendar
	conflicts *ConflictDetector
	audit     AuditSink
	now       func() time.Time
}

// NewAppointments wires the state machine to its collaborators.
func NewAppointments(store AppointmentStore, users UserDirectory, calendar *Calendar, conflicts *ConflictDetector, audit AuditSink) *Appointments {
	return &Appointments{
		store:     store,
		users:     users,
		calendar:  calendar,
		conflicts: conflicts,
		audit:     audit,
		now:       time.Now,
	}
}

// Create books a new appointment in SCHEDULED status after validating
// the participants, the doctor's availability and the absence of
// conflicting bookings.
func (a *Appointments) Create(req CreateRequest) (*models.Appointment, error) {
	if _, err := resolveActiveUser(a.users, req.PatientID, models.RolePatient); err != nil {
		return nil, err
	}
	doctor, err := resolveActiveUser(a.users, req.DoctorID, models.RoleDoctor)
	if err != nil {
		return nil, err
	}

	if req.DurationMinutes <= 0 {
		return nil, newError(KindInvalidRange, "appointment duration must be positive")
	}
	if !req.StartTime.After(a.now()) {
		return nil, newError(KindInvalidRange, "appointment start must be in the future")
	}

	if err := a.checkDoctorAvailable(doctor, req.StartTime); err != nil {
		return nil, err
	}

	end := req.StartTime.Add(time.Duration(req.DurationMinutes) * time.Minute)
	conflict, err := a.conflicts.HasConflict(req.DoctorID, req.StartTime, end, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, newError(KindConflict, "requested slot overlaps an existing appointment for doctor %s", req.DoctorID)
	}

	apt := &models.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          models.StatusScheduled,
		Type:            req.Type,
		Reason:          req.Reason,
		Notes:           req.Notes,
		IsUrgent:        req.IsUrgent,
		IsFollowUp:      req.IsFollowUp,
		FollowUpOf:      req.FollowUpOf,
		CreatedBy:       req.CreatedBy,
	}
	if apt.Type == "" {
		apt.Type = models.TypeConsultation
	}

	// The store re-checks conflicts inside its transaction; a lost race
	// surfaces as a conflict error here.
	if err := a.store.Create(apt); err != nil {
		return nil, err
	}

	a.audit.Record("APPOINTMENT_CREATED", req.CreatedBy, "APPOINTMENT", apt.ID,
		"Appointment created with doctor "+doctor.Email)
	return apt, nil
}

// Get loads an appointment by id.
func (a *Appointments) Get(id string) (*models.Appointment, error) {
	apt, err := a.store.FindByID(id)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Message: "appointment " + id + " not found", Cause: err}
	}
	return apt, nil
}

// Reschedule moves an appointment to a new doctor, start time or
// duration. Availability and conflicts are re-validated only when the
// doctor or interval actually changed, with the appointment's own id
// excluded from the conflict check so it cannot collide with itself.
func (a *Appointments) Reschedule(id string, req RescheduleRequest, requesterID string) (*models.Appointment, error) {
	apt, err := a.Get(id)
	if err != nil {
		return nil, err
	}
	if err := a.requireAccess(apt, requesterID); err != nil {
		return nil, err
	}

	newDoctorID := apt.DoctorID
	if req.DoctorID != nil {
		newDoctorID = *req.DoctorID
	}
	newStart := apt.StartTime
	if req.StartTime != nil {
		newStart = *req.StartTime
	}
	newDuration := apt.DurationMinutes
	if req.DurationMinutes != nil {
		newDuration = *req.DurationMinutes
	}
	if newDuration <= 0 {
		return nil, newError(KindInvalidRange, "appointment duration must be positive")
	}

	changed := newDoctorID != apt.DoctorID || !newStart.Equal(apt.StartTime) || newDuration != apt.DurationMinutes
	if changed {
		doctor, err := resolveActiveUser(a.users, newDoctorID, models.RoleDoctor)
		if err != nil {
			return nil, err
		}
		if !newStart.After(a.now()) {
			return nil, newError(KindInvalidRange, "appointment start must be in the future")
		}
		if err := a.checkDoctorAvailable(doctor, newStart); err != nil {
			return nil, err
		}

		end := newStart.Add(time.Duration(newDuration) * time.Minute)
		conflict, err := a.conflicts.HasConflict(newDoctorID, newStart, end, apt.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, newError(KindConflict, "requested slot overlaps an existing appointment for doctor %s", newDoctorID)
		}
	}

	apt.DoctorID = newDoctorID
	apt.StartTime = newStart
	apt.DurationMinutes = newDuration
	if err := a.store.Update(apt); err != nil {
		return nil, err
	}

	a.audit.Record("APPOINTMENT_RESCHEDULED", requesterID, "APPOINTMENT", apt.ID,
		"Appointment rescheduled by user "+requesterID)
	return apt, nil
}

// Cancel moves a SCHEDULED or CONFIRMED appointment to CANCELLED,
// recording the reason, the canceller and the time. Cancelling an
// already-cancelled appointment always fails.
func (a *Appointments) Cancel(id, reason, requesterID string) (*models.Appointment, error) {
	apt, err := a.Get(id)
	if err != nil {
		return nil, err
	}
	if apt.Status != models.StatusScheduled && apt.Status != models.StatusConfirmed {
		return nil, errInvalidTransition(apt.Status, models.StatusCancelled)
	}
	if err := a.requireAccess(apt, requesterID); err != nil {
		return nil, err
	}

	now := a.now()
	apt.Status = models.StatusCancelled
	apt.CancellationReason = reason
	apt.CancelledBy = &requesterID
	apt.CancelledAt = &now
	if err := a.store.Update(apt); err != nil {
		return nil, err
	}

	a.audit.Record("APPOINTMENT_CANCELLED", requesterID, "APPOINTMENT", apt.ID,
		"Appointment cancelled. Reason: "+reason)
	return apt, nil
}

// Confirm moves a SCHEDULED appointment to CONFIRMED.
func (a *Appointments) Confirm(id, requesterID string) (*models.Appointment, error) {
	return a.transition(id, requesterID, models.StatusScheduled, models.StatusConfirmed, "APPOINTMENT_CONFIRMED")
}

// Start moves a CONFIRMED appointment to IN_PROGRESS when the visit
// begins.
func (a *Appointments) Start(id, requesterID string) (*models.Appointment, error) {
	return a.transition(id, requesterID, models.StatusConfirmed, models.StatusInProgress, "APPOINTMENT_STARTED")
}

// Complete moves an IN_PROGRESS appointment to COMPLETED.
func (a *Appointments) Complete(id, requesterID string) (*models.Appointment, error) {
	return a.transition(id, requesterID, models.StatusInProgress, models.StatusCompleted, "APPOINTMENT_COMPLETED")
}

// MarkNoShow moves a CONFIRMED appointment to NO_SHOW.
func (a *Appointments) MarkNoShow(id, requesterID string) (*models.Appointment, error) {
	return a.transition(id, requesterID, models.StatusConfirmed, models.StatusNoShow, "APPOINTMENT_NO_SHOW")
}

// transition applies a single-source status change with the shared
// access check.
func (a *Appointments) transition(id, requesterID string, from, to models.AppointmentStatus, auditAction string) (*models.Appointment, error) {
	apt, err := a.Get(id)
	if err != nil {
		return nil, err
	}
	if apt.Status != from {
		return nil, errInvalidTransition(apt.Status, to)
	}
	if err := a.requireAccess(apt, requesterID); err != nil {
		return nil, err
	}

	apt.Status = to
	if err := a.store.Update(apt); err != nil {
		return nil, err
	}

	a.audit.Record(auditAction, requesterID, "APPOINTMENT", apt.ID,
		"Appointment moved to "+string(to)+" by user "+requesterID)
	return apt, nil
}

// requireAccess is the single access check shared by all mutating
// transitions: admins always pass, a doctor passes for their own
// appointments, a patient for theirs.
func (a *Appointments) requireAccess(apt *models.Appointment, requesterID string) error {
	requester, err := a.users.GetUserByID(requesterID)
	if err != nil {
		return &Error{Kind: KindUnknownUser, Message: "user " + requesterID + " not found", Cause: err}
	}
	switch {
	case requester.Role == models.RoleAdmin:
		return nil
	case requester.Role == models.RoleDoctor && apt.DoctorID == requesterID:
		return nil
	case requester.Role == models.RolePatient && apt.PatientID == requesterID:
		return nil
	}
	return newError(KindAccessDenied, "user %s may not modify this appointment", requesterID)
}

// checkDoctorAvailable verifies the doctor's global availability flag
// and that the start instant falls inside an active availability
// window.
func (a *Appointments) checkDoctorAvailable(doctor *models.User, start time.Time) error {
	if !doctor.IsAvailable {
		return newError(KindDoctorUnavailable, "doctor %s is not accepting appointments", doctor.ID)
	}
	available, err := a.calendar.IsAvailableAt(doctor.ID, start.Weekday(), interval.ClockOf(start))
	if err != nil {
		return err
	}
	if !available {
		return newError(KindDoctorUnavailable, "doctor %s is not available at %s on %s",
			doctor.ID, interval.ClockOf(start), start.Weekday())
	}
	return nil
}
