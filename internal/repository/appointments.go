package repository

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
)

// overlapCondition matches appointments whose half-open interval
// [start_time, start_time + duration) overlaps the queried range.
const overlapCondition = "start_time < ? AND DATE_ADD(start_time, INTERVAL duration_minutes MINUTE) > ?"

// AppointmentStore persists appointments in MySQL.
type AppointmentStore struct {
	db *gorm.DB
}

// NewAppointmentStore creates a store over the database.
func NewAppointmentStore(db *gorm.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

// Create inserts an appointment. The conflict re-check and the insert
// run in one transaction, serialized per doctor by locking the doctor's
// user row, so two concurrent bookings for the same slot cannot both
// commit.
func (s *AppointmentStore) Create(apt *models.Appointment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var doctor models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doctor, "id = ?", apt.DoctorID).Error; err != nil {
			return err
		}

		count, err := countConflicting(tx, apt.DoctorID, apt.StartTime, apt.EndTime(), "")
		if err != nil {
			return err
		}
		if count > 0 {
			return scheduling.KindConflict.AsError("requested slot was booked concurrently for doctor " + apt.DoctorID)
		}

		return tx.Create(apt).Error
	})
}

// Update saves a modified appointment.
func (s *AppointmentStore) Update(apt *models.Appointment) error {
	return s.db.Save(apt).Error
}

// FindByID loads an appointment by id.
func (s *AppointmentStore) FindByID(id string) (*models.Appointment, error) {
	var apt models.Appointment
	if err := s.db.First(&apt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &apt, nil
}

// CountConflicting counts blocking appointments of the doctor whose
// interval overlaps [start, end), optionally excluding one appointment.
func (s *AppointmentStore) CountConflicting(doctorID string, start, end time.Time, excludeID string) (int64, error) {
	return countConflicting(s.db, doctorID, start, end, excludeID)
}

func countConflicting(db *gorm.DB, doctorID string, start, end time.Time, excludeID string) (int64, error) {
	query := db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status IN ?", doctorID, models.BlockingStatuses).
		Where(overlapCondition, end, start)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// FindByDoctorInRange lists a doctor's appointments starting in
// [start, end), soonest first.
func (s *AppointmentStore) FindByDoctorInRange(doctorID string, start, end time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Where("doctor_id = ? AND start_time >= ? AND start_time < ?", doctorID, start, end).
		Order("start_time asc").Find(&appointments).Error
	return appointments, err
}

// FindByPatientInRange lists a patient's appointments starting in
// [start, end), soonest first.
func (s *AppointmentStore) FindByPatientInRange(patientID string, start, end time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Where("patient_id = ? AND start_time >= ? AND start_time < ?", patientID, start, end).
		Order("start_time asc").Find(&appointments).Error
	return appointments, err
}

// FindUrgent lists urgent appointments still in a blocking status,
// soonest first.
func (s *AppointmentStore) FindUrgent() ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.Where("is_urgent = ? AND status IN ?", true, models.BlockingStatuses).
		Order("start_time asc").Find(&appointments).Error
	return appointments, err
}

// CountByStatusInRange counts appointments in a status starting in
// [start, end).
func (s *AppointmentStore) CountByStatusInRange(status models.AppointmentStatus, start, end time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.Appointment{}).
		Where("status = ? AND start_time >= ? AND start_time < ?", status, start, end).
		Count(&count).Error
	return count, err
}

// AverageDurationInRange averages the duration of appointments starting
// in [start, end); zero when there are none.
func (s *AppointmentStore) AverageDurationInRange(start, end time.Time) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.Model(&models.Appointment{}).
		Where("start_time >= ? AND start_time < ?", start, end).
		Select("AVG(duration_minutes)").
		Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
