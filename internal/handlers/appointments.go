package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// AppointmentHandler handles appointment related requests. All
// validation and state transitions are delegated to the scheduling
// core.
type AppointmentHandler struct {
	Scheduler *scheduling.Scheduler
	Cfg       *config.Config
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(scheduler *scheduling.Scheduler, cfg *config.Config) *AppointmentHandler {
	return &AppointmentHandler{Scheduler: scheduler, Cfg: cfg}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID        string    `json:"doctorId" binding:"required,uuid"`
	PatientID       string    `json:"patientId" binding:"required,uuid"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,min=15,max=480"`
	Type            string    `json:"type" binding:"omitempty,oneof=CONSULTATION FOLLOW_UP EMERGENCY ROUTINE_CHECKUP SPECIALIST_VISIT"`
	Reason          string    `json:"reason" binding:"required"`
	Notes           string    `json:"notes"`
	IsUrgent        bool      `json:"isUrgent"`
	IsFollowUp      bool      `json:"isFollowUp"`
	FollowUpOf      *string   `json:"followUpOf" binding:"omitempty,uuid"`
}

// CreateAppointment handles booking a new appointment. Patients can only
// book for themselves; doctors and admins can book for any patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	requesterID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	requesterRole, _ := middleware.GetUserRoleFromContext(c)
	if requesterRole == models.RolePatient && requesterID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	aptType, _ := models.ParseAppointmentType(req.Type)
	appointment, err := h.Scheduler.BookAppointment(scheduling.CreateRequest{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Type:            aptType,
		Reason:          req.Reason,
		Notes:           req.Notes,
		IsUrgent:        req.IsUrgent,
		IsFollowUp:      req.IsFollowUp,
		FollowUpOf:      req.FollowUpOf,
		CreatedBy:       requesterID,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser handles fetching the schedule of the logged-in
// user: their own bookings for patients and doctors, any doctor's or
// patient's schedule for admins via query parameters.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	start, end, ok := h.parseRange(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	var err error
	switch userRole {
	case models.RoleDoctor:
		appointments, err = h.Scheduler.DoctorSchedule(userID, start, end)
	case models.RolePatient:
		appointments, err = h.Scheduler.PatientSchedule(userID, start, end)
	case models.RoleAdmin:
		if doctorID := c.Query("doctorId"); doctorID != "" {
			appointments, err = h.Scheduler.DoctorSchedule(doctorID, start, end)
		} else if patientID := c.Query("patientId"); patientID != "" {
			appointments, err = h.Scheduler.PatientSchedule(patientID, start, end)
		} else {
			utils.BadRequest(c, "Admins must specify doctorId or patientId")
			return
		}
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	appointment, err := h.Scheduler.GetAppointment(appointmentID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleAdmin && userID != appointment.PatientID && userID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
// Omitted fields keep their current value.
type RescheduleAppointmentRequest struct {
	StartTime       *time.Time `json:"startTime"`
	DurationMinutes *int       `json:"durationMinutes" binding:"omitempty,min=15,max=480"`
	DoctorID        *string    `json:"doctorId" binding:"omitempty,uuid"`
}

// RescheduleAppointment handles moving an appointment to a new doctor,
// time or duration.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	appointmentID := c.Param("id")

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.StartTime == nil && req.DurationMinutes == nil && req.DoctorID == nil {
		utils.BadRequest(c, "At least one of startTime, durationMinutes or doctorId is required")
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(c)
	appointment, err := h.Scheduler.RescheduleAppointment(appointmentID, scheduling.RescheduleRequest{
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		DoctorID:        req.DoctorID,
	}, requesterID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// CancelAppointmentRequest carries the cancellation reason.
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelAppointment handles cancelling a scheduled or confirmed
// appointment.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(c)
	appointment, err := h.Scheduler.CancelAppointment(c.Param("id"), req.Reason, requesterID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// ConfirmAppointment handles confirming a scheduled appointment.
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	h.applyTransition(c, h.Scheduler.ConfirmAppointment, "Appointment confirmed successfully")
}

// StartAppointment handles marking a confirmed appointment as in
// progress when the visit begins.
func (h *AppointmentHandler) StartAppointment(c *gin.Context) {
	h.applyTransition(c, h.Scheduler.StartAppointment, "Appointment started successfully")
}

// CompleteAppointment handles completing an in-progress appointment.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	h.applyTransition(c, h.Scheduler.CompleteAppointment, "Appointment completed successfully")
}

// MarkNoShow handles marking a confirmed appointment as a no-show.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, h.Scheduler.MarkNoShow, "Appointment marked as no-show")
}

func (h *AppointmentHandler) applyTransition(c *gin.Context, transition func(id, requesterID string) (*models.Appointment, error), message string) {
	requesterID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	appointment, err := transition(c.Param("id"), requesterID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, message, appointment)
}

// GetUrgentAppointments handles listing pending urgent appointments.
func (h *AppointmentHandler) GetUrgentAppointments(c *gin.Context) {
	appointments, err := h.Scheduler.UrgentAppointments()
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch urgent appointments: "+err.Error())
		return
	}
	utils.Success(c, "Urgent appointments fetched successfully", appointments)
}

// GetStatistics handles the admin statistics endpoint. Defaults to the
// configured trailing range when from/to are omitted.
func (h *AppointmentHandler) GetStatistics(c *gin.Context) {
	start, end, ok := h.parseStatsRange(c)
	if !ok {
		return
	}
	stats, err := h.Scheduler.ComputeStatistics(start, end)
	if err != nil {
		utils.InternalServerError(c, "Failed to compute statistics: "+err.Error())
		return
	}
	utils.Success(c, "Appointment statistics computed successfully", stats)
}

// parseRange reads optional from/to query parameters (RFC 3339),
// defaulting to the next 30 days.
func (h *AppointmentHandler) parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	start := time.Now()
	end := start.AddDate(0, 0, 30)
	return h.parseRangeWithDefaults(c, start, end)
}

// parseStatsRange defaults to the configured trailing window.
func (h *AppointmentHandler) parseStatsRange(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -h.Cfg.StatsDefaultRangeDays)
	return h.parseRangeWithDefaults(c, start, end)
}

func (h *AppointmentHandler) parseRangeWithDefaults(c *gin.Context, start, end time.Time) (time.Time, time.Time, bool) {
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.BadRequest(c, "Invalid 'from' timestamp; expected RFC 3339")
			return start, end, false
		}
		start = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.BadRequest(c, "Invalid 'to' timestamp; expected RFC 3339")
			return start, end, false
		}
		end = parsed
	}
	if !start.Before(end) {
		utils.BadRequest(c, "'from' must be before 'to'")
		return start, end, false
	}
	return start, end, true
}
