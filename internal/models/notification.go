package models

import (
	"fmt"
	"time"

	"flesk/internal/uuid"

	"gorm.io/gorm"
)

// NotificationType identifies what produced a notification and which payload it carries.
type NotificationType string

const (
	NotificationBudgetAlert          NotificationType = "budget_alert"
	NotificationSubscriptionReminder NotificationType = "subscription_reminder"
	NotificationSpendingAnomaly      NotificationType = "spending_anomaly"
	NotificationGoalProgress         NotificationType = "goal_progress"
	NotificationSystem               NotificationType = "system"
)

// NotificationPriority orders notifications for display and delivery.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// NotificationStatus is the read state of a notification.
type NotificationStatus string

const (
	NotificationUnread   NotificationStatus = "unread"
	NotificationRead     NotificationStatus = "read"
	NotificationArchived NotificationStatus = "archived"
)

// Notification is an alert surfaced to a user.
// Rows are hard-deleted so that the dedup key can be reused once a
// notification is removed or expires.
type Notification struct {
	ID             string               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string               `gorm:"type:uuid;not null;index:idx_notifications_user_status" json:"user_id"`
	Type           NotificationType     `gorm:"not null" json:"type"`
	Title          string               `gorm:"not null" json:"title"`
	Message        string               `gorm:"not null" json:"message"`
	Priority       NotificationPriority `gorm:"not null;default:'medium'" json:"priority"`
	Status         NotificationStatus   `gorm:"not null;default:'unread';index:idx_notifications_user_status" json:"status"`
	Data           NotificationData     `gorm:"type:jsonb" json:"data"`
	DedupKey       *string              `gorm:"uniqueIndex:uq_notifications_dedup_key" json:"-"`
	ExpiresAt      *time.Time           `gorm:"index" json:"expires_at,omitempty"`
	ActionRequired bool                 `gorm:"not null;default:false" json:"action_required"`
	ActionURL      string               `json:"action_url,omitempty"`
	ReadAt         *time.Time           `json:"read_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New()
	}
	return nil
}

// Validate checks that the payload variant matches the notification type.
func (n *Notification) Validate() error {
	if !n.Type.IsValid() {
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	if n.Data.Payload != nil && n.Data.Payload.Kind() != n.Type {
		return fmt.Errorf("payload of kind %q attached to %q notification", n.Data.Payload.Kind(), n.Type)
	}
	return nil
}

// IsExpired reports whether the notification is past its expiry at t.
func (n *Notification) IsExpired(t time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(t)
}

// IsValid reports whether t is a known notification type.
func (t NotificationType) IsValid() bool {
	_, ok := payloadFactories[t]
	return ok
}
