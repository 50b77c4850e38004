package models

import (
	"time"

	"gorm.io/gorm"

	"flesk/internal/uuid"
)

// Base is embedded by every mutable, soft-deletable table.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate stamps CreatedAt from the session clock and derives a UUIDv7
// from it, so IDs sort in creation order.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = tx.NowFunc()
	}
	if b.ID == "" {
		b.ID = uuid.NewAt(b.CreatedAt)
	}
	return nil
}
