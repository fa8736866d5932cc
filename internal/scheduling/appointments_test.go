package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-scheduling-server/internal/interval"
	"clinic-scheduling-server/internal/models"
)

type appointmentsFixture struct {
	appointments *Appointments
	store        *fakeAppointmentStore
	windows      *fakeAvailabilityStore
	audit        *fakeAuditSink
	now          time.Time
}

// newAppointmentsFixture wires the state machine over in-memory fakes
// with a fixed clock (Monday 2026-03-02 08:00 UTC) and a standing
// Monday 09:00-17:00 window for every given doctor.
func newAppointmentsFixture(t *testing.T, users ...*models.User) *appointmentsFixture {
	t.Helper()

	store := newFakeAppointmentStore()
	windows := newFakeAvailabilityStore()
	audit := &fakeAuditSink{}
	dir := newFakeDirectory(users...)

	calendar := NewCalendar(windows, dir, audit)
	appointments := NewAppointments(store, dir, calendar, NewConflictDetector(store), audit)

	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	appointments.now = func() time.Time { return now }

	for _, u := range users {
		if u.Role == models.RoleDoctor {
			require.NoError(t, windows.Create(&models.AvailabilityWindow{
				DoctorID:  u.ID,
				DayOfWeek: time.Monday,
				StartTime: interval.NewClock(9, 0),
				EndTime:   interval.NewClock(17, 0),
				IsActive:  true,
			}))
		}
	}

	return &appointmentsFixture{
		appointments: appointments,
		store:        store,
		windows:      windows,
		audit:        audit,
		now:          now,
	}
}

func (f *appointmentsFixture) createRequest() CreateRequest {
	return CreateRequest{
		DoctorID:        "dr-1",
		PatientID:       "pat-1",
		StartTime:       f.now.Add(2 * time.Hour), // Monday 10:00
		DurationMinutes: 30,
		Reason:          "checkup",
		CreatedBy:       "pat-1",
	}
}

func TestCreateAppointment(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"), testPatient("pat-1"))

	apt, err := f.appointments.Create(f.createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, models.StatusScheduled, apt.Status)
	assert.Equal(t, models.TypeConsultation, apt.Type, "type defaults to consultation")
	assert.Contains(t, f.audit.actions(), "APPOINTMENT_CREATED")
}

func TestCreateAppointmentRejectsBadParticipants(t *testing.T) {
	doctor := testDoctor("dr-1")
	inactivePatient := testPatient("pat-off")
	inactivePatient.IsActive = false
	f := newAppointmentsFixture(t, doctor, testPatient("pat-1"), inactivePatient)

	req := f.createRequest()
	req.PatientID = "nobody"
	_, err := f.appointments.Create(req)
	assert.Equal(t, KindUnknownUser, KindOf(err))

	req = f.createRequest()
	req.PatientID = "pat-off"
	_, err = f.appointments.Create(req)
	assert.Equal(t, KindInactiveUser, KindOf(err))

	req = f.createRequest()
	req.DoctorID = "pat-1"
	_, err = f.appointments.Create(req)
	assert.Equal(t, KindUnknownUser, KindOf(err), "a patient id is not a doctor")
}

func TestCreateAppointmentRejectsBadTiming(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"), testPatient("pat-1"))

	req := f.createRequest()
	req.DurationMinutes = 0
	_, err := f.appointments.Create(req)
	assert.Equal(t, KindInvalidRange, KindOf(err))

	req = f.createRequest()
	req.StartTime = f.now.Add(-time.Hour)
	_, err = f.appointments.Create(req)
	assert.Equal(t, KindInvalidRange, KindOf(err), "start in the past")

	req = f.createRequest()
	req.StartTime = f.now
	_, err = f.appointments.Create(req)
	assert.Equal(t, KindInvalidRange, KindOf(err), "start exactly now is not in the future")
}

func TestCreateAppointmentRequiresAvailability(t *testing.T) {
	flaggedOff := testDoctor("dr-flag")
	flaggedOff.IsAvailable = false
	f := newAppointmentsFixture(t, testDoctor("dr-1"), flaggedOff, testPatient("pat-1"))

	req := f.createRequest()
	req.DoctorID = "dr-flag"
	_, err := f.appointments.Create(req)
	assert.Equal(t, KindDoctorUnavailable, KindOf(err), "doctor not accepting appointments")

	// Monday 18:00 is outside the 09:00-17:00 window.
	req = f.createRequest()
	req.StartTime = f.now.Add(10 * time.Hour)
	_, err = f.appointments.Create(req)
	assert.Equal(t, KindDoctorUnavailable, KindOf(err))
}

func TestCreateAppointmentDetectsConflicts(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"), testDoctor("dr-2"), testPatient("pat-1"), testPatient("pat-2"))

	first, err := f.appointments.Create(f.createRequest())
	require.NoError(t, err)

	t.Run("overlapping slot", func(t *testing.T) {
		req := f.createRequest()
		req.PatientID = "pat-2"
		req.StartTime = first.StartTime.Add(15 * time.Minute)
		_, err := f.appointments.Create(req)
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("back-to-back slot is fine", func(t *testing.T) {
		req := f.createRequest()
		req.PatientID = "pat-2"
		req.StartTime = first.EndTime()
		_, err := f.appointments.Create(req)
		assert.NoError(t, err)
	})

	t.Run("same slot with another doctor is fine", func(t *testing.T) {
		req := f.createRequest()
		req.DoctorID = "dr-2"
		_, err := f.appointments.Create(req)
		assert.NoError(t, err)
	})

	t.Run("cancelled appointments do not block", func(t *testing.T) {
		later := f.createRequest()
		later.StartTime = f.now.Add(5 * time.Hour)
		apt, err := f.appointments.Create(later)
		require.NoError(t, err)
		_, err = f.appointments.Cancel(apt.ID, "changed plans", "pat-1")
		require.NoError(t, err)

		again := f.createRequest()
		again.PatientID = "pat-2"
		again.StartTime = apt.StartTime
		_, err = f.appointments.Create(again)
		assert.NoError(t, err)
	})
}

func TestRescheduleAppointment(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"), testDoctor("dr-2"), testPatient("pat-1"))

	apt, err := f.appointments.Create(f.createRequest())
	require.NoError(t, err)

	t.Run("same slot does not conflict with itself", func(t *testing.T) {
		newDuration := 45
		moved, err := f.appointments.Reschedule(apt.ID, RescheduleRequest{DurationMinutes: &newDuration}, "pat-1")
		require.NoError(t, err)
		assert.Equal(t, 45, moved.DurationMinutes)
	})

	t.Run("move to a new start", func(t *testing.T) {
		newStart := f.now.Add(4 * time.Hour)
		moved, err := f.appointments.Reschedule(apt.ID, RescheduleRequest{StartTime: &newStart}, "pat-1")
		require.NoError(t, err)
		assert.True(t, moved.StartTime.Equal(newStart))
		assert.Contains(t, f.audit.actions(), "APPOINTMENT_RESCHEDULED")
	})

	t.Run("move to another doctor", func(t *testing.T) {
		newDoctor := "dr-2"
		moved, err := f.appointments.Reschedule(apt.ID, RescheduleRequest{DoctorID: &newDoctor}, "pat-1")
		require.NoError(t, err)
		assert.Equal(t, "dr-2", moved.DoctorID)
	})

	t.Run("new slot must be free", func(t *testing.T) {
		blocker := f.createRequest()
		blocker.StartTime = f.now.Add(6 * time.Hour)
		_, err := f.appointments.Create(blocker)
		require.NoError(t, err)

		newStart := f.now.Add(6 * time.Hour)
		backToFirst := "dr-1"
		_, err = f.appointments.Reschedule(apt.ID, RescheduleRequest{StartTime: &newStart, DoctorID: &backToFirst}, "pat-1")
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("stranger may not reschedule", func(t *testing.T) {
		newStart := f.now.Add(3 * time.Hour)
		_, err := f.appointments.Reschedule(apt.ID, RescheduleRequest{StartTime: &newStart}, "nobody")
		assert.Equal(t, KindUnknownUser, KindOf(err))
	})
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"), testPatient("pat-1"))

	apt, err := f.appointments.Create(f.createRequest())
	require.NoError(t, err)

	cancelled, err := f.appointments.Cancel(apt.ID, "feeling better", "pat-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, "feeling better", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, "pat-1", *cancelled.CancelledBy)
	assert.NotNil(t, cancelled.CancelledAt)

	// Cancelling twice is an invalid transition, never a silent no-op.
	_, err = f.appointments.Cancel(apt.ID, "again", "pat-1")
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestTransitionMatrix(t *testing.T) {
	type step func(a *Appointments, id string) error

	confirm := func(a *Appointments, id string) error { _, err := a.Confirm(id, "dr-1"); return err }
	start := func(a *Appointments, id string) error { _, err := a.Start(id, "dr-1"); return err }
	complete := func(a *Appointments, id string) error { _, err := a.Complete(id, "dr-1"); return err }
	noShow := func(a *Appointments, id string) error { _, err := a.MarkNoShow(id, "dr-1"); return err }
	cancel := func(a *Appointments, id string) error { _, err := a.Cancel(id, "test", "dr-1"); return err }

	// Paths that put an appointment into each source status.
	reach := map[models.AppointmentStatus][]step{
		models.StatusScheduled:  {},
		models.StatusConfirmed:  {confirm},
		models.StatusInProgress: {confirm, start},
		models.StatusCompleted:  {confirm, start, complete},
		models.StatusCancelled:  {cancel},
		models.StatusNoShow:     {confirm, noShow},
	}

	attempts := []struct {
		name    string
		attempt step
		legal   map[models.AppointmentStatus]bool
	}{
		{"confirm", confirm, map[models.AppointmentStatus]bool{models.StatusScheduled: true}},
		{"start", start, map[models.AppointmentStatus]bool{models.StatusConfirmed: true}},
		{"complete", complete, map[models.AppointmentStatus]bool{models.StatusInProgress: true}},
		{"no-show", noShow, map[models.AppointmentStatus]bool{models.StatusConfirmed: true}},
		{"cancel", cancel, map[models.AppointmentStatus]bool{models.StatusScheduled: true, models.StatusConfirmed: true}},
	}

	for from, path := range reach {
		for _, tt := range attempts {
			t.Run(string(from)+"/"+tt.name, func(t *testing.T) {
				f := newAppointmentsFixture(t, testDoctor("dr-1"), testPatient("pat-1"))
				apt, err := f.appointments.Create(f.createRequest())
				require.NoError(t, err)
				for _, s := range path {
					require.NoError(t, s(f.appointments, apt.ID))
				}

				err = tt.attempt(f.appointments, apt.ID)
				if tt.legal[from] {
					assert.NoError(t, err)
				} else {
					assert.Equal(t, KindInvalidTransition, KindOf(err))
				}
			})
		}
	}
}

func TestTransitionAccess(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"), testDoctor("dr-2"), testPatient("pat-1"), testAdmin("adm-1"))

	apt, err := f.appointments.Create(f.createRequest())
	require.NoError(t, err)

	_, err = f.appointments.Confirm(apt.ID, "dr-2")
	assert.Equal(t, KindAccessDenied, KindOf(err), "uninvolved doctor")

	_, err = f.appointments.Confirm(apt.ID, "adm-1")
	assert.NoError(t, err, "admins always pass")

	_, err = f.appointments.Start(apt.ID, "dr-1")
	assert.NoError(t, err, "owning doctor passes")
}

func TestGetAppointmentNotFound(t *testing.T) {
	f := newAppointmentsFixture(t, testDoctor("dr-1"))

	_, err := f.appointments.Get("missing")
	assert.Equal(t, KindNotFound, KindOf(err))
}
