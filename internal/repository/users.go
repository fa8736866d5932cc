// Package repository provides the GORM-backed implementations of the
// scheduling core's store interfaces.
package repository

import (
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
)

// UserDirectory resolves users from the users table.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory creates a directory over the database.
func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// GetUserByID loads a user by id.
func (d *UserDirectory) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
