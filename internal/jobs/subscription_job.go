package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"flesk/internal/models"
	"flesk/internal/notify"
	"flesk/internal/spending"
)

// DefaultReminderWindow is how far ahead renewals are announced.
const DefaultReminderWindow = 3 * 24 * time.Hour

// SubscriptionReminderJob rolls stale renewal dates forward and reminds users
// of renewals inside the look-ahead window.
type SubscriptionReminderJob struct {
	db      *gorm.DB
	emitter *notify.Emitter
	window  time.Duration
}

// NewSubscriptionReminderJob creates the job. A non-positive window uses
// DefaultReminderWindow.
func NewSubscriptionReminderJob(db *gorm.DB, emitter *notify.Emitter, window time.Duration) *SubscriptionReminderJob {
	if window <= 0 {
		window = DefaultReminderWindow
	}
	return &SubscriptionReminderJob{db: db, emitter: emitter, window: window}
}

// Run advances past-due renewal dates, then emits one reminder per
// subscription renewing between the start of today and now+window.
func (j *SubscriptionReminderJob) Run(ctx context.Context, rc RunContext) (*RunResult, error) {
	log := rc.log()
	res := NewRunResult(rc)
	db := j.db.WithContext(ctx)
	today := spending.StartOfDay(rc.Now)

	var stale []models.Subscription
	if err := db.Where("is_active = ? AND renewal_date < ?", true, today.UTC()).Find(&stale).Error; err != nil {
		log.Errorw("failed to load stale subscriptions", "error", err)
		res.fail("load stale subscriptions: %v", err)
	}
	for _, sub := range stale {
		next := RollForward(sub.RenewalDate, sub.BillingCycle, today)
		if err := db.Model(&models.Subscription{}).Where("id = ?", sub.ID).
			Update("renewal_date", next.UTC()).Error; err != nil {
			log.Errorw("failed to roll subscription forward", "error", err, "subscription_id", sub.ID)
			res.fail("subscription %s: %v", sub.ID, err)
			continue
		}
		res.updated(1)
	}

	var due []models.Subscription
	if err := db.Where("is_active = ? AND renewal_date >= ? AND renewal_date <= ?",
		true, today.UTC(), rc.Now.Add(j.window).UTC()).
		Order("renewal_date").Find(&due).Error; err != nil {
		return nil, fmt.Errorf("load upcoming subscriptions: %w", err)
	}

	for _, sub := range due {
		res.processed()
		out, err := j.emitter.EmitSubscriptionReminder(ctx, sub, rc.Now)
		if err != nil {
			log.Errorw("failed to emit subscription reminder", "error", err, "subscription_id", sub.ID, "user_id", sub.UserID)
			res.fail("subscription %s: %v", sub.ID, err)
			continue
		}
		res.emitted(out.Duplicate)
	}

	log.Infow("subscription reminders complete",
		"rolled_forward", res.Updated,
		"due", len(due),
		"reminders", res.Emitted,
		"errors", len(res.Errors),
	)
	return res.finish(), nil
}

// RollForward advances renewal by whole billing cycles until it is not
// before cutoff. Cycles are counted from the original date so a clamped
// month end does not drift.
func RollForward(renewal time.Time, cycle models.BillingCycle, cutoff time.Time) time.Time {
	next := renewal
	for n := 1; next.Before(cutoff); n++ {
		next = cycle.AddCycles(renewal, n)
	}
	return next
}
