package models

// AuditLog records a single administrative or clinical action for the
// audit trail. Rows are append-only.
type AuditLog struct {
	BaseModel
	ActorID      string `gorm:"size:36;index" json:"actorId"`
	Action       string `gorm:"size:100;index;not null" json:"action"`
	ResourceType string `gorm:"size:50;index" json:"resourceType"`
	ResourceID   string `gorm:"size:36;index" json:"resourceId"`
	Details      string `gorm:"type:text" json:"details"`
}
