package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// RecurringPeriod is how often a recurring transaction repeats.
type RecurringPeriod string

const (
	RecurringDaily   RecurringPeriod = "daily"
	RecurringWeekly  RecurringPeriod = "weekly"
	RecurringMonthly RecurringPeriod = "monthly"
	RecurringYearly  RecurringPeriod = "yearly"
)

// Transaction is a single ledger entry. Amount is in minor units (cents).
type Transaction struct {
	Base
	UserID          string           `gorm:"type:uuid;not null;index:idx_transactions_user_date" json:"user_id"`
	Type            TransactionType  `gorm:"not null" json:"type"`
	Category        Category         `gorm:"not null;index" json:"category"`
	Amount          int64            `gorm:"type:bigint;not null" json:"amount"`
	Description     string           `json:"description"`
	Date            time.Time        `gorm:"not null;index:idx_transactions_user_date" json:"date"`
	IsRecurring     bool             `gorm:"default:false" json:"is_recurring"`
	RecurringPeriod *RecurringPeriod `json:"recurring_period,omitempty"`

	// Optional geolocation, both set or both nil.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
