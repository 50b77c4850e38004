package models

import (
	"time"

	"gorm.io/gorm"

	"flesk/internal/uuid"
)

// AuditLog is an append-only record of a sensitive user operation. Rows are
// never updated or soft-deleted, so it does not embed Base.
type AuditLog struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index:idx_audit_logs_user_created,priority:1" json:"user_id"`
	Action       string    `gorm:"size:64;not null" json:"action"`
	ResourceType string    `gorm:"size:32;not null" json:"resource_type"`
	ResourceID   string    `gorm:"size:36" json:"resource_id,omitempty"`
	IPAddress    string    `gorm:"size:45" json:"ip_address"`
	Changes      string    `json:"changes,omitempty"`
	CreatedAt    time.Time `gorm:"not null;index:idx_audit_logs_user_created,priority:2" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = tx.NowFunc()
	}
	if a.ID == "" {
		a.ID = uuid.NewAt(a.CreatedAt)
	}
	return nil
}
