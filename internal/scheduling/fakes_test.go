package scheduling

import (
	"errors"
	"fmt"
	"time"

	"clinic-scheduling-server/internal/models"
)

// In-memory collaborators used across the package tests.

type fakeDirectory struct {
	users map[string]*models.User
}

func newFakeDirectory(users ...*models.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[string]*models.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) GetUserByID(id string) (*models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

type fakeAppointmentStore struct {
	appointments map[string]*models.Appointment
	nextID       int
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appointments: make(map[string]*models.Appointment)}
}

func (s *fakeAppointmentStore) Create(apt *models.Appointment) error {
	if apt.ID == "" {
		s.nextID++
		apt.ID = fmt.Sprintf("apt-%d", s.nextID)
	}
	cp := *apt
	s.appointments[apt.ID] = &cp
	return nil
}

func (s *fakeAppointmentStore) Update(apt *models.Appointment) error {
	if _, ok := s.appointments[apt.ID]; !ok {
		return errors.New("record not found")
	}
	cp := *apt
	s.appointments[apt.ID] = &cp
	return nil
}

func (s *fakeAppointmentStore) FindByID(id string) (*models.Appointment, error) {
	apt, ok := s.appointments[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *apt
	return &cp, nil
}

func (s *fakeAppointmentStore) CountConflicting(doctorID string, start, end time.Time, excludeID string) (int64, error) {
	var n int64
	for _, apt := range s.appointments {
		if apt.DoctorID != doctorID || apt.ID == excludeID || !apt.Status.Blocking() {
			continue
		}
		if apt.StartTime.Before(end) && start.Before(apt.EndTime()) {
			n++
		}
	}
	return n, nil
}

func (s *fakeAppointmentStore) FindByDoctorInRange(doctorID string, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, apt := range s.appointments {
		if apt.DoctorID == doctorID && !apt.StartTime.Before(start) && apt.StartTime.Before(end) {
			out = append(out, *apt)
		}
	}
	return out, nil
}

func (s *fakeAppointmentStore) FindByPatientInRange(patientID string, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, apt := range s.appointments {
		if apt.PatientID == patientID && !apt.StartTime.Before(start) && apt.StartTime.Before(end) {
			out = append(out, *apt)
		}
	}
	return out, nil
}

func (s *fakeAppointmentStore) FindUrgent() ([]models.Appointment, error) {
	var out []models.Appointment
	for _, apt := range s.appointments {
		if apt.IsUrgent && apt.Status.Blocking() {
			out = append(out, *apt)
		}
	}
	return out, nil
}

func (s *fakeAppointmentStore) CountByStatusInRange(status models.AppointmentStatus, start, end time.Time) (int64, error) {
	var n int64
	for _, apt := range s.appointments {
		if apt.Status == status && !apt.StartTime.Before(start) && apt.StartTime.Before(end) {
			n++
		}
	}
	return n, nil
}

func (s *fakeAppointmentStore) AverageDurationInRange(start, end time.Time) (float64, error) {
	var sum, n float64
	for _, apt := range s.appointments {
		if !apt.StartTime.Before(start) && apt.StartTime.Before(end) {
			sum += float64(apt.DurationMinutes)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / n, nil
}

type fakeAvailabilityStore struct {
	windows map[string]*models.AvailabilityWindow
	nextID  int
}

func newFakeAvailabilityStore() *fakeAvailabilityStore {
	return &fakeAvailabilityStore{windows: make(map[string]*models.AvailabilityWindow)}
}

func (s *fakeAvailabilityStore) Create(w *models.AvailabilityWindow) error {
	if w.ID == "" {
		s.nextID++
		w.ID = fmt.Sprintf("win-%d", s.nextID)
	}
	cp := *w
	s.windows[w.ID] = &cp
	return nil
}

func (s *fakeAvailabilityStore) Update(w *models.AvailabilityWindow) error {
	if _, ok := s.windows[w.ID]; !ok {
		return errors.New("record not found")
	}
	cp := *w
	s.windows[w.ID] = &cp
	return nil
}

func (s *fakeAvailabilityStore) Delete(id string) error {
	if _, ok := s.windows[id]; !ok {
		return errors.New("record not found")
	}
	delete(s.windows, id)
	return nil
}

func (s *fakeAvailabilityStore) FindByID(id string) (*models.AvailabilityWindow, error) {
	w, ok := s.windows[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *w
	return &cp, nil
}

func (s *fakeAvailabilityStore) FindByDoctorAndDay(doctorID string, day time.Weekday) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range s.windows {
		if w.DoctorID == doctorID && w.DayOfWeek == day {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeAvailabilityStore) FindByDoctor(doctorID string) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range s.windows {
		if w.DoctorID == doctorID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeAvailabilityStore) FindActiveByDay(day time.Weekday) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range s.windows {
		if w.IsActive && w.DayOfWeek == day {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeAvailabilityStore) CountByDoctor(doctorID string) (total, active int64, err error) {
	for _, w := range s.windows {
		if w.DoctorID != doctorID {
			continue
		}
		total++
		if w.IsActive {
			active++
		}
	}
	return total, active, nil
}

type recordedAudit struct {
	Action       string
	ActorID      string
	ResourceType string
	ResourceID   string
	Details      string
}

type fakeAuditSink struct {
	records []recordedAudit
}

func (s *fakeAuditSink) Record(action, actorID, resourceType, resourceID, details string) {
	s.records = append(s.records, recordedAudit{action, actorID, resourceType, resourceID, details})
}

func (s *fakeAuditSink) actions() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Action
	}
	return out
}

// Common test users.

func testDoctor(id string) *models.User {
	u := &models.User{
		Email:       id + "@clinic.test",
		Role:        models.RoleDoctor,
		IsActive:    true,
		IsAvailable: true,
	}
	u.ID = id
	return u
}

func testPatient(id string) *models.User {
	u := &models.User{
		Email:    id + "@clinic.test",
		Role:     models.RolePatient,
		IsActive: true,
	}
	u.ID = id
	return u
}

func testAdmin(id string) *models.User {
	u := &models.User{
		Email:    id + "@clinic.test",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	u.ID = id
	return u
}
