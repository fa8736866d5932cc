// Package audit persists the append-only audit trail. Writes are
// fire-and-forget: a failed insert is logged and never propagated, so
// audit problems cannot abort a business operation.
package audit

import (
	"log"

	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
)

// Trail records actions into the audit_logs table and serves read-back
// queries for admins.
type Trail struct {
	db *gorm.DB
}

// NewTrail creates an audit trail over the database.
func NewTrail(db *gorm.DB) *Trail {
	return &Trail{db: db}
}

// Record appends one audit entry. Failures are logged only.
func (t *Trail) Record(action, actorID, resourceType, resourceID, details string) {
	entry := models.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	if err := t.db.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %s on %s/%s: %v", action, resourceType, resourceID, err)
	}
}

// ByActor lists a user's audit entries, newest first.
func (t *Trail) ByActor(actorID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := t.db.Where("actor_id = ?", actorID).Order("created_at desc").Find(&entries).Error
	return entries, err
}

// ByResource lists the audit entries for one resource, newest first.
func (t *Trail) ByResource(resourceType, resourceID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := t.db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at desc").Find(&entries).Error
	return entries, err
}

// Recent lists the most recent audit entries up to limit.
func (t *Trail) Recent(limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := t.db.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}
