package models

import "time"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusPaused    BudgetStatus = "paused"
	BudgetStatusCompleted BudgetStatus = "completed"
)

// DefaultNotificationThreshold is used when a budget is created without one.
const DefaultNotificationThreshold = 80

// Budget is a spending limit for one category over a recurring period.
type Budget struct {
	Base
	UserID                string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Category              Category     `gorm:"not null" json:"category"`
	Name                  string       `gorm:"not null" json:"name"`
	Amount                int64        `gorm:"type:bigint;not null" json:"amount"`
	Period                BudgetPeriod `gorm:"not null" json:"period"`
	StartDate             time.Time    `gorm:"not null" json:"start_date"`
	EndDate               *time.Time   `json:"end_date,omitempty"`
	NotificationsEnabled  bool         `gorm:"not null" json:"notifications_enabled"`
	NotificationThreshold int          `gorm:"not null" json:"notification_threshold"`
	Status                BudgetStatus `gorm:"not null;default:'active';index" json:"status"`
}
