package models

import (
	"time"

	"clinic-scheduling-server/internal/interval"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// Blocking reports whether an appointment in this status still occupies
// the doctor's time. Terminal statuses never block new bookings.
func (s AppointmentStatus) Blocking() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// Terminal reports whether no further transitions are permitted.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// BlockingStatuses lists the statuses that occupy a doctor's calendar.
var BlockingStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed}

// AppointmentType represents the kind of visit
type AppointmentType string

const (
	TypeConsultation    AppointmentType = "CONSULTATION"
	TypeFollowUp        AppointmentType = "FOLLOW_UP"
	TypeEmergency       AppointmentType = "EMERGENCY"
	TypeRoutineCheckup  AppointmentType = "ROUTINE_CHECKUP"
	TypeSpecialistVisit AppointmentType = "SPECIALIST_VISIT"
)

// ParseAppointmentType validates an appointment type string.
func ParseAppointmentType(s string) (AppointmentType, bool) {
	switch AppointmentType(s) {
	case TypeConsultation, TypeFollowUp, TypeEmergency, TypeRoutineCheckup, TypeSpecialistVisit:
		return AppointmentType(s), true
	}
	return "", false
}

// Appointment represents a scheduled medical appointment. Appointments
// are never physically deleted; cancellation is a status change so the
// booking history stays auditable.
type Appointment struct {
	BaseModel
	DoctorID        string            `gorm:"size:36;index;not null" json:"doctorId"`
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	StartTime       time.Time         `gorm:"index;not null" json:"startTime"`
	DurationMinutes int               `gorm:"not null;default:30" json:"durationMinutes"`
	Status          AppointmentStatus `gorm:"size:20;default:'SCHEDULED'" json:"status"`
	Type            AppointmentType   `gorm:"size:30;default:'CONSULTATION'" json:"type"`
	Reason          string            `gorm:"type:text" json:"reason"`
	Notes           string            `gorm:"type:text" json:"notes"`
	IsUrgent        bool              `gorm:"default:false" json:"isUrgent"`
	IsFollowUp      bool              `gorm:"default:false" json:"isFollowUp"`
	FollowUpOf      *string           `gorm:"size:36" json:"followUpOf,omitempty"`

	CancellationReason string     `gorm:"type:text" json:"cancellationReason,omitempty"`
	CancelledBy        *string    `gorm:"size:36" json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedBy string `gorm:"size:36" json:"createdBy,omitempty"`
}

// EndTime returns the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Interval returns the half-open [start, end) interval the appointment
// occupies.
func (a *Appointment) Interval() interval.TimeRange {
	return interval.NewTimeRange(a.StartTime, a.DurationMinutes)
}
