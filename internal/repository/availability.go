package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-scheduling-server/internal/models"
)

// AvailabilityStore persists availability windows in MySQL.
type AvailabilityStore struct {
	db *gorm.DB
}

// NewAvailabilityStore creates a store over the database.
func NewAvailabilityStore(db *gorm.DB) *AvailabilityStore {
	return &AvailabilityStore{db: db}
}

// Create inserts a window. The insert runs in a transaction holding a
// lock on the doctor's user row, serializing writes per doctor so the
// calendar's overlap check cannot race a concurrent insert.
func (s *AvailabilityStore) Create(w *models.AvailabilityWindow) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var doctor models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doctor, "id = ?", w.DoctorID).Error; err != nil {
			return err
		}
		return tx.Create(w).Error
	})
}

// Update saves a modified window.
func (s *AvailabilityStore) Update(w *models.AvailabilityWindow) error {
	return s.db.Save(w).Error
}

// Delete hard-deletes a window by id.
func (s *AvailabilityStore) Delete(id string) error {
	return s.db.Delete(&models.AvailabilityWindow{}, "id = ?", id).Error
}

// FindByID loads a window by id.
func (s *AvailabilityStore) FindByID(id string) (*models.AvailabilityWindow, error) {
	var w models.AvailabilityWindow
	if err := s.db.First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// FindByDoctorAndDay lists a doctor's windows for one weekday.
func (s *AvailabilityStore) FindByDoctorAndDay(doctorID string, day time.Weekday) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := s.db.Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		Order("start_time asc, id asc").Find(&windows).Error
	return windows, err
}

// FindByDoctor lists all of a doctor's windows ordered by day then
// start time.
func (s *AvailabilityStore) FindByDoctor(doctorID string) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := s.db.Where("doctor_id = ?", doctorID).
		Order("day_of_week asc, start_time asc, id asc").Find(&windows).Error
	return windows, err
}

// FindActiveByDay lists the active windows of all doctors for one
// weekday.
func (s *AvailabilityStore) FindActiveByDay(day time.Weekday) ([]models.AvailabilityWindow, error) {
	var windows []models.AvailabilityWindow
	err := s.db.Where("day_of_week = ? AND is_active = ?", day, true).
		Order("start_time asc, id asc").Find(&windows).Error
	return windows, err
}

// CountByDoctor counts a doctor's total and active windows.
func (s *AvailabilityStore) CountByDoctor(doctorID string) (total, active int64, err error) {
	if err = s.db.Model(&models.AvailabilityWindow{}).
		Where("doctor_id = ?", doctorID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&models.AvailabilityWindow{}).
		Where("doctor_id = ? AND is_active = ?", doctorID, true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
