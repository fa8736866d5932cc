package scheduling

import (
	"sort"
	"time"

	"clinic-scheduling-server/internal/interval"
	"clinic-scheduling-server/internal/models"
)

// NextSlotHorizonDays bounds the day-by-day scan of NextAvailableSlot.
const NextSlotHorizonDays = 30

// Calendar owns the recurring availability windows of doctors and
// answers bookability queries.
type Calendar struct {
	windows AvailabilityStore
	users   UserDirectory
	audit   AuditSink
}

// NewCalendar creates an availability calendar over the given
// collaborators.
func NewCalendar(windows AvailabilityStore, users UserDirectory, audit AuditSink) *Calendar {
	return &Calendar{windows: windows, users: users, audit: audit}
}

// SetWindow validates and persists a new availability window for a
// doctor, rejecting windows that overlap an existing active window for
// the same doctor and day.
func (c *Calendar) SetWindow(w *models.AvailabilityWindow) (*models.AvailabilityWindow, error) {
	doctor, err := resolveActiveUser(c.users, w.DoctorID, models.RoleDoctor)
	if err != nil {
		return nil, err
	}

	applyWindowDefaults(w)
	if err := validateWindow(w); err != nil {
		return nil, err
	}
	if err := c.checkWindowOverlap(w, ""); err != nil {
		return nil, err
	}

	if err := c.windows.Create(w); err != nil {
		return nil, err
	}

	c.audit.Record("AVAILABILITY_SET", doctor.ID, "AVAILABILITY", w.ID,
		"Availability set for "+w.DayOfWeek.String()+" "+w.StartTime.String()+"-"+w.EndTime.String())
	return w, nil
}

// UpdateWindow replaces the mutable fields of an existing window after
// re-validating its invariants against all other windows of the doctor.
// Only the owning doctor or an admin may update a window.
func (c *Calendar) UpdateWindow(id string, updated *models.AvailabilityWindow, requesterID string) (*models.AvailabilityWindow, error) {
	existing, err := c.windows.FindByID(id)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Message: "availability window " + id + " not found", Cause: err}
	}
	if err := c.requireWindowAccess(existing, requesterID); err != nil {
		return nil, err
	}

	existing.DayOfWeek = updated.DayOfWeek
	existing.StartTime = updated.StartTime
	existing.EndTime = updated.EndTime
	existing.IsActive = updated.IsActive
	existing.SlotDurationMinutes = updated.SlotDurationMinutes
	existing.MaxAppointmentsPerDay = updated.MaxAppointmentsPerDay
	existing.BreakStartTime = updated.BreakStartTime
	existing.BreakEndTime = updated.BreakEndTime
	existing.Notes = updated.Notes

	applyWindowDefaults(existing)
	if err := validateWindow(existing); err != nil {
		return nil, err
	}
	if err := c.checkWindowOverlap(existing, existing.ID); err != nil {
		return nil, err
	}

	if err := c.windows.Update(existing); err != nil {
		return nil, err
	}

	c.audit.Record("AVAILABILITY_UPDATED", requesterID, "AVAILABILITY", existing.ID,
		"Availability updated for "+existing.DayOfWeek.String())
	return existing, nil
}

// DeleteWindow removes a window. Only the owning doctor or an admin may
// delete it.
func (c *Calendar) DeleteWindow(id string, requesterID string) error {
	existing, err := c.windows.FindByID(id)
	if err != nil {
		return &Error{Kind: KindNotFound, Message: "availability window " + id + " not found", Cause: err}
	}
	if err := c.requireWindowAccess(existing, requesterID); err != nil {
		return err
	}
	if err := c.windows.Delete(id); err != nil {
		return err
	}
	c.audit.Record("AVAILABILITY_DELETED", requesterID, "AVAILABILITY", id,
		"Availability deleted for "+existing.DayOfWeek.String())
	return nil
}

// WindowsForDoctor lists all windows of a doctor, active and not.
func (c *Calendar) WindowsForDoctor(doctorID string) ([]models.AvailabilityWindow, error) {
	return c.windows.FindByDoctor(doctorID)
}

// IsAvailableAt reports whether some active window for the doctor and
// weekday contains t, with t outside that window's break. The window
// start is bookable, the end is not.
func (c *Calendar) IsAvailableAt(doctorID string, day time.Weekday, t interval.Clock) (bool, error) {
	windows, err := c.windows.FindByDoctorAndDay(doctorID, day)
	if err != nil {
		return false, err
	}
	for i := range windows {
		w := &windows[i]
		if w.IsActive && w.CoversTime(t) {
			return true, nil
		}
	}
	return false, nil
}

// AvailableDoctors returns the active, available doctors that have an
// active window covering the given instant.
func (c *Calendar) AvailableDoctors(at time.Time) ([]*models.User, error) {
	windows, err := c.windows.FindActiveByDay(at.Weekday())
	if err != nil {
		return nil, err
	}

	t := interval.ClockOf(at)
	seen := make(map[string]bool)
	var doctors []*models.User
	for i := range windows {
		w := &windows[i]
		if !w.CoversTime(t) || seen[w.DoctorID] {
			continue
		}
		seen[w.DoctorID] = true
		doctor, err := c.users.GetUserByID(w.DoctorID)
		if err != nil {
			continue
		}
		if doctor.Role == models.RoleDoctor && doctor.IsActive && doctor.IsAvailable {
			doctors = append(doctors, doctor)
		}
	}
	return doctors, nil
}

// NextAvailableSlot scans forward day by day from the given instant and
// returns the earliest window start strictly after it, or nil when no
// active window exists within the horizon. The scan is greedy: ties are
// broken by window start time, then window id. Existing bookings at the
// candidate slot are not consulted.
func (c *Calendar) NextAvailableSlot(doctorID string, from time.Time) (*time.Time, error) {
	all, err := c.windows.FindByDoctor(doctorID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Weekday][]models.AvailabilityWindow)
	for _, w := range all {
		if w.IsActive {
			byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
		}
	}
	for day := range byDay {
		windows := byDay[day]
		sort.Slice(windows, func(i, j int) bool {
			if windows[i].StartTime != windows[j].StartTime {
				return windows[i].StartTime < windows[j].StartTime
			}
			return windows[i].ID < windows[j].ID
		})
	}

	for day := 0; day < NextSlotHorizonDays; day++ {
		date := from.AddDate(0, 0, day)
		for _, w := range byDay[date.Weekday()] {
			slotStart := w.StartTime.OnDate(date)
			if slotStart.After(from) {
				return &slotStart, nil
			}
		}
	}
	return nil, nil
}

// MarkUnavailable inserts an inactive override window spanning the
// given date-time range, used for vacations and one-off blocks. It does
// not cancel appointments already booked in that range; the caller
// reconciles those separately.
func (c *Calendar) MarkUnavailable(doctorID string, start, end time.Time, reason string) (*models.AvailabilityWindow, error) {
	doctor, err := resolveActiveUser(c.users, doctorID, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, newError(KindInvalidRange, "unavailability start must be before end")
	}

	block := &models.AvailabilityWindow{
		DoctorID:  doctorID,
		DayOfWeek: start.Weekday(),
		StartTime: interval.ClockOf(start),
		EndTime:   interval.ClockOf(end),
		IsActive:  false,
		Notes:     "Temporary unavailability: " + reason,
	}
	applyWindowDefaults(block)
	if !block.Range().Valid() {
		return nil, newError(KindInvalidRange, "unavailability range must fall within a single day")
	}

	if err := c.windows.Create(block); err != nil {
		return nil, err
	}

	c.audit.Record("DOCTOR_UNAVAILABLE", doctor.ID, "AVAILABILITY", block.ID,
		"Doctor marked unavailable: "+reason)
	return block, nil
}

// AvailabilityStatistics summarizes a doctor's configured windows.
type AvailabilityStatistics struct {
	TotalWindows    int64 `json:"totalWindows"`
	ActiveWindows   int64 `json:"activeWindows"`
	InactiveWindows int64 `json:"inactiveWindows"`
}

// Statistics counts a doctor's total, active and inactive windows.
func (c *Calendar) Statistics(doctorID string) (*AvailabilityStatistics, error) {
	total, active, err := c.windows.CountByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityStatistics{
		TotalWindows:    total,
		ActiveWindows:   active,
		InactiveWindows: total - active,
	}, nil
}

// requireWindowAccess permits admins and the owning doctor.
func (c *Calendar) requireWindowAccess(w *models.AvailabilityWindow, requesterID string) error {
	requester, err := c.users.GetUserByID(requesterID)
	if err != nil {
		return &Error{Kind: KindUnknownUser, Message: "user " + requesterID + " not found", Cause: err}
	}
	if requester.Role == models.RoleAdmin {
		return nil
	}
	if requester.Role == models.RoleDoctor && w.DoctorID == requesterID {
		return nil
	}
	return newError(KindAccessDenied, "user %s may not modify this availability window", requesterID)
}

func applyWindowDefaults(w *models.AvailabilityWindow) {
	if w.SlotDurationMinutes == 0 {
		w.SlotDurationMinutes = models.DefaultSlotDurationMinutes
	}
	if w.MaxAppointmentsPerDay == 0 {
		w.MaxAppointmentsPerDay = models.DefaultMaxAppointmentsPerDay
	}
}

// validateWindow enforces the window invariants: start < end, slot
// duration and per-day cap within bounds, break well formed and inside
// the working interval.
func validateWindow(w *models.AvailabilityWindow) error {
	if !w.Range().Valid() {
		return newError(KindInvalidRange, "window start %s must be before end %s", w.StartTime, w.EndTime)
	}
	if w.SlotDurationMinutes < models.MinSlotDurationMinutes || w.SlotDurationMinutes > models.MaxSlotDurationMinutes {
		return newError(KindInvalidRange, "slot duration must be between %d and %d minutes",
			models.MinSlotDurationMinutes, models.MaxSlotDurationMinutes)
	}
	if w.MaxAppointmentsPerDay < 0 || w.MaxAppointmentsPerDay > models.MaxAppointmentsPerDay {
		return newError(KindInvalidRange, "max appointments per day must be between 0 and %d",
			models.MaxAppointmentsPerDay)
	}
	if (w.BreakStartTime == nil) != (w.BreakEndTime == nil) {
		return newError(KindInvalidRange, "break start and end must both be set")
	}
	if brk := w.Break(); brk != nil {
		if !brk.Valid() {
			return newError(KindInvalidRange, "break start %s must be before end %s", brk.Start, brk.End)
		}
		if !w.Range().ContainsRange(*brk) {
			return newError(KindInvalidRange, "break must lie within the window")
		}
	}
	return nil
}

// checkWindowOverlap rejects windows overlapping an existing active
// window for the same doctor and day. Overlap is judged on the working
// interval before break subtraction. excludeID skips the window itself
// on update.
func (c *Calendar) checkWindowOverlap(w *models.AvailabilityWindow, excludeID string) error {
	existing, err := c.windows.FindByDoctorAndDay(w.DoctorID, w.DayOfWeek)
	if err != nil {
		return err
	}
	for i := range existing {
		other := &existing[i]
		if other.ID == excludeID || !other.IsActive {
			continue
		}
		if w.Range().Overlaps(other.Range()) {
			return newError(KindOverlap, "window %s-%s overlaps existing window %s-%s on %s",
				w.StartTime, w.EndTime, other.StartTime, other.EndTime, w.DayOfWeek)
		}
	}
	return nil
}
