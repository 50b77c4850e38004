package models

import "time"

// BillingCycle is the interval between subscription renewals.
type BillingCycle string

const (
	BillingCycleWeekly  BillingCycle = "weekly"
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// Subscription is a recurring charge the user wants to be reminded about.
type Subscription struct {
	Base
	UserID       string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string       `gorm:"not null" json:"name"`
	Amount       int64        `gorm:"type:bigint;not null" json:"amount"`
	RenewalDate  time.Time    `gorm:"not null;index" json:"renewal_date"`
	BillingCycle BillingCycle `gorm:"not null;default:'monthly'" json:"billing_cycle"`
	Category     Category     `gorm:"not null;default:'subscriptions'" json:"category"`
	IsActive     bool         `gorm:"not null" json:"is_active"`
}

// NextRenewal returns the renewal date one billing cycle after from.
func (c BillingCycle) NextRenewal(from time.Time) time.Time {
	return c.AddCycles(from, 1)
}

// AddCycles returns the date n billing cycles after from. Monthly and yearly
// cycles keep from's day of month, clamped to the target month's last day,
// so Jan 31 renews on Feb 28 and then Mar 31.
func (c BillingCycle) AddCycles(from time.Time, n int) time.Time {
	switch c {
	case BillingCycleWeekly:
		return from.AddDate(0, 0, 7*n)
	case BillingCycleYearly:
		return addMonthsClamped(from, 12*n)
	default:
		return addMonthsClamped(from, n)
	}
}

func addMonthsClamped(from time.Time, months int) time.Time {
	y, m, d := from.Date()
	first := time.Date(y, m+time.Month(months), 1, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
