package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/interval"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// AvailabilityHandler handles doctor availability calendar requests.
type AvailabilityHandler struct {
	Calendar *scheduling.Calendar
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(calendar *scheduling.Calendar) *AvailabilityHandler {
	return &AvailabilityHandler{Calendar: calendar}
}

// AvailabilityWindowRequest represents the request body for creating or
// updating an availability window. Times are "HH:MM" strings.
type AvailabilityWindowRequest struct {
	DoctorID              string  `json:"doctorId" binding:"required,uuid"`
	DayOfWeek             string  `json:"dayOfWeek" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime             string  `json:"startTime" binding:"required"`
	EndTime               string  `json:"endTime" binding:"required"`
	IsActive              *bool   `json:"isActive"`
	SlotDurationMinutes   int     `json:"slotDurationMinutes" binding:"omitempty,min=15,max=120"`
	MaxAppointmentsPerDay int     `json:"maxAppointmentsPerDay" binding:"omitempty,min=0,max=50"`
	BreakStartTime        *string `json:"breakStartTime"`
	BreakEndTime          *string `json:"breakEndTime"`
	Notes                 string  `json:"notes"`
}

func (r *AvailabilityWindowRequest) toWindow(c *gin.Context) (*models.AvailabilityWindow, bool) {
	day, err := models.ParseDayOfWeek(r.DayOfWeek)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return nil, false
	}
	start, err := interval.ParseClock(r.StartTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return nil, false
	}
	end, err := interval.ParseClock(r.EndTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return nil, false
	}

	w := &models.AvailabilityWindow{
		DoctorID:              r.DoctorID,
		DayOfWeek:             day,
		StartTime:             start,
		EndTime:               end,
		IsActive:              true,
		SlotDurationMinutes:   r.SlotDurationMinutes,
		MaxAppointmentsPerDay: r.MaxAppointmentsPerDay,
		Notes:                 r.Notes,
	}
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
	if r.BreakStartTime != nil {
		brk, err := interval.ParseClock(*r.BreakStartTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return nil, false
		}
		w.BreakStartTime = &brk
	}
	if r.BreakEndTime != nil {
		brk, err := interval.ParseClock(*r.BreakEndTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return nil, false
		}
		w.BreakEndTime = &brk
	}
	return w, true
}

// SetAvailability handles creating a new availability window. Doctors
// can only manage their own calendar; admins can manage any.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityWindowRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(c)
	requesterRole, _ := middleware.GetUserRoleFromContext(c)
	if requesterRole == models.RoleDoctor && requesterID != req.DoctorID {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	window, ok := req.toWindow(c)
	if !ok {
		return
	}
	created, err := h.Calendar.SetWindow(window)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Created(c, "Availability window created successfully", created)
}

// UpdateAvailability handles replacing an existing window's fields.
func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	var req AvailabilityWindowRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	window, ok := req.toWindow(c)
	if !ok {
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(c)
	updated, err := h.Calendar.UpdateWindow(c.Param("id"), window, requesterID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Availability window updated successfully", updated)
}

// DeleteAvailability handles hard-deleting a window.
func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	requesterID, _ := middleware.GetUserIDFromContext(c)
	if err := h.Calendar.DeleteWindow(c.Param("id"), requesterID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Availability window deleted successfully", nil)
}

// GetDoctorAvailability handles listing a doctor's windows.
func (h *AvailabilityHandler) GetDoctorAvailability(c *gin.Context) {
	windows, err := h.Calendar.WindowsForDoctor(c.Param("doctorId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch availability: "+err.Error())
		return
	}
	utils.Success(c, "Availability fetched successfully", windows)
}

// GetNextAvailableSlot handles finding the next bookable slot for a
// doctor after a given instant (default now).
func (h *AvailabilityHandler) GetNextAvailableSlot(c *gin.Context) {
	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.BadRequest(c, "Invalid 'from' timestamp; expected RFC 3339")
			return
		}
		from = parsed
	}

	slot, err := h.Calendar.NextAvailableSlot(c.Param("doctorId"), from)
	if err != nil {
		utils.InternalServerError(c, "Failed to find next slot: "+err.Error())
		return
	}
	if slot == nil {
		utils.NotFound(c, "No available slot within the scheduling horizon")
		return
	}
	utils.Success(c, "Next available slot found", gin.H{"nextSlot": slot})
}

// GetAvailableDoctors handles listing doctors available at an instant.
func (h *AvailabilityHandler) GetAvailableDoctors(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.BadRequest(c, "Invalid 'at' timestamp; expected RFC 3339")
			return
		}
		at = parsed
	}

	doctors, err := h.Calendar.AvailableDoctors(at)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch available doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, doctor := range doctors {
		sanitized[i] = doctor.Sanitize()
	}
	utils.Success(c, "Available doctors fetched successfully", sanitized)
}

// MarkUnavailableRequest represents a one-off unavailability block.
type MarkUnavailableRequest struct {
	DoctorID  string    `json:"doctorId" binding:"required,uuid"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

// MarkUnavailable handles inserting an inactive override window for a
// vacation or one-off block. Appointments already booked in the range
// are left untouched.
func (h *AvailabilityHandler) MarkUnavailable(c *gin.Context) {
	var req MarkUnavailableRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	requesterID, _ := middleware.GetUserIDFromContext(c)
	requesterRole, _ := middleware.GetUserRoleFromContext(c)
	if requesterRole == models.RoleDoctor && requesterID != req.DoctorID {
		utils.Forbidden(c, "Doctors can only manage their own availability.")
		return
	}

	block, err := h.Calendar.MarkUnavailable(req.DoctorID, req.StartTime, req.EndTime, req.Reason)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Created(c, "Doctor marked unavailable", block)
}

// GetAvailabilityStatistics handles the per-doctor window statistics.
func (h *AvailabilityHandler) GetAvailabilityStatistics(c *gin.Context) {
	stats, err := h.Calendar.Statistics(c.Param("doctorId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to compute availability statistics: "+err.Error())
		return
	}
	utils.Success(c, "Availability statistics computed successfully", stats)
}
