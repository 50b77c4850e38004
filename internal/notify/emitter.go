// Package notify persists system-generated notifications exactly once per
// dedup key and fans new ones out to delivery publishers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flesk/internal/logger"
	"flesk/internal/models"
	"flesk/internal/spending"
)

// GoalNotificationTTL is how long goal notifications remain before cleanup.
const GoalNotificationTTL = 30 * 24 * time.Hour

// Goal milestones used as dedup buckets.
const (
	GoalMilestoneAchieved = "achieved"
	GoalMilestoneExpired  = "expired"
	GoalMilestoneDeadline = "deadline"
)

// Publisher delivers a freshly persisted notification somewhere outside the
// database. Failures never roll back the insert.
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

// Result describes the outcome of an emit call.
type Result struct {
	Notification *models.Notification
	Duplicate    bool
}

// Emitter inserts notifications guarded by the notifications.dedup_key
// unique index.
type Emitter struct {
	db         *gorm.DB
	publishers []Publisher
	log        *zap.SugaredLogger
}

// NewEmitter creates an Emitter. Nil publishers are ignored.
func NewEmitter(db *gorm.DB, publishers ...Publisher) *Emitter {
	e := &Emitter{db: db, log: logger.Named("notify")}
	for _, p := range publishers {
		if p != nil {
			e.publishers = append(e.publishers, p)
		}
	}
	return e
}

// DedupKey builds the uniqueness key user:type:subject:bucket.
func DedupKey(userID string, t models.NotificationType, subject, bucket string) string {
	return strings.Join([]string{userID, string(t), subject, bucket}, ":")
}

// Emit persists n unless a notification with the same dedup key already
// exists. A notification without a dedup key is always inserted.
func (e *Emitter) Emit(ctx context.Context, n *models.Notification) (Result, error) {
	if err := n.Validate(); err != nil {
		return Result{}, err
	}

	db := e.db.WithContext(ctx)
	if n.DedupKey != nil {
		var existing int64
		if err := db.Model(&models.Notification{}).
			Where("dedup_key = ?", *n.DedupKey).
			Count(&existing).Error; err != nil {
			return Result{}, fmt.Errorf("check dedup key %s: %w", *n.DedupKey, err)
		}
		if existing > 0 {
			return Result{Duplicate: true}, nil
		}
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedup_key"}},
		DoNothing: true,
	}).Create(n)
	if res.Error != nil {
		return Result{}, fmt.Errorf("insert notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return Result{Duplicate: true}, nil
	}

	e.publish(ctx, n)
	return Result{Notification: n}, nil
}

func (e *Emitter) publish(ctx context.Context, n *models.Notification) {
	for _, p := range e.publishers {
		if err := p.Publish(ctx, n); err != nil {
			e.log.Warnw("failed to publish notification",
				"error", err,
				"notification_id", n.ID,
				"user_id", n.UserID,
				"type", n.Type,
			)
		}
	}
}

// EmitBudgetAlert records a threshold breach for budget in window w.
func (e *Emitter) EmitBudgetAlert(ctx context.Context, budget models.Budget, w spending.Window, ev spending.Evaluation) (Result, error) {
	key := DedupKey(budget.UserID, models.NotificationBudgetAlert, string(budget.Category), w.Key)
	expires := w.End.UTC()

	title := fmt.Sprintf("Budget alert: %s", budget.Name)
	message := fmt.Sprintf("You have used %.2f%% of your %s %s budget (%s of %s).",
		ev.Percentage, budget.Period, budget.Category, FormatAmount(ev.Spent), FormatAmount(budget.Amount))
	if ev.IsOverBudget {
		title = fmt.Sprintf("Over budget: %s", budget.Name)
		message = fmt.Sprintf("You are %s over your %s %s budget.",
			FormatAmount(-ev.Remaining), budget.Period, budget.Category)
	}

	return e.Emit(ctx, &models.Notification{
		UserID:   budget.UserID,
		Type:     models.NotificationBudgetAlert,
		Title:    title,
		Message:  message,
		Priority: spending.Priority(ev),
		Status:   models.NotificationUnread,
		Data: models.NewNotificationData(models.BudgetAlertPayload{
			BudgetID:   budget.ID,
			Category:   budget.Category,
			Period:     budget.Period,
			PeriodKey:  w.Key,
			Amount:     budget.Amount,
			Spent:      ev.Spent,
			Remaining:  ev.Remaining,
			Percentage: ev.Percentage,
			Threshold:  budget.NotificationThreshold,
			OverBudget: ev.IsOverBudget,
		}),
		DedupKey:       &key,
		ExpiresAt:      &expires,
		ActionRequired: ev.IsOverBudget,
		ActionURL:      "/budgets/" + budget.ID,
	})
}

// EmitSubscriptionReminder records an upcoming renewal for sub.
func (e *Emitter) EmitSubscriptionReminder(ctx context.Context, sub models.Subscription, now time.Time) (Result, error) {
	renewal := sub.RenewalDate.In(now.Location())
	bucket := renewal.Format("2006-01-02")
	key := DedupKey(sub.UserID, models.NotificationSubscriptionReminder, sub.ID, bucket)
	expires := spending.StartOfDay(renewal).AddDate(0, 0, 1).UTC()
	days := DaysUntil(now, renewal)

	when := fmt.Sprintf("in %d days", days)
	switch days {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	}

	return e.Emit(ctx, &models.Notification{
		UserID:   sub.UserID,
		Type:     models.NotificationSubscriptionReminder,
		Title:    fmt.Sprintf("%s renews %s", sub.Name, when),
		Message:  fmt.Sprintf("Your %s subscription of %s renews on %s.", sub.Name, FormatAmount(sub.Amount), bucket),
		Priority: models.PriorityMedium,
		Status:   models.NotificationUnread,
		Data: models.NewNotificationData(models.SubscriptionReminderPayload{
			SubscriptionID: sub.ID,
			Name:           sub.Name,
			Amount:         sub.Amount,
			RenewalDate:    sub.RenewalDate,
			DaysUntil:      days,
		}),
		DedupKey:       &key,
		ExpiresAt:      &expires,
		ActionRequired: true,
		ActionURL:      "/subscriptions/" + sub.ID,
	})
}

// EmitGoalProgress records a goal milestone. The milestone doubles as the
// dedup bucket, so each goal reports each milestone at most once.
func (e *Emitter) EmitGoalProgress(ctx context.Context, goal models.SavingsGoal, milestone string, now time.Time) (Result, error) {
	var title, message string
	priority := models.PriorityMedium
	switch milestone {
	case GoalMilestoneAchieved:
		title = fmt.Sprintf("Goal achieved: %s", goal.Name)
		message = fmt.Sprintf("You reached your savings goal of %s.", FormatAmount(goal.TargetAmount))
		priority = models.PriorityLow
	case GoalMilestoneExpired:
		title = fmt.Sprintf("Goal expired: %s", goal.Name)
		message = fmt.Sprintf("The deadline passed with %s of %s saved.",
			FormatAmount(goal.CurrentAmount), FormatAmount(goal.TargetAmount))
	case GoalMilestoneDeadline:
		title = fmt.Sprintf("Goal deadline approaching: %s", goal.Name)
		message = fmt.Sprintf("%s left to save before the deadline.",
			FormatAmount(goal.TargetAmount-goal.CurrentAmount))
	default:
		return Result{}, errors.New("unknown goal milestone: " + milestone)
	}

	key := DedupKey(goal.UserID, models.NotificationGoalProgress, goal.ID, milestone)
	expires := now.Add(GoalNotificationTTL).UTC()

	return e.Emit(ctx, &models.Notification{
		UserID:   goal.UserID,
		Type:     models.NotificationGoalProgress,
		Title:    title,
		Message:  message,
		Priority: priority,
		Status:   models.NotificationUnread,
		Data: models.NewNotificationData(models.GoalProgressPayload{
			GoalID:        goal.ID,
			Name:          goal.Name,
			TargetAmount:  goal.TargetAmount,
			CurrentAmount: goal.CurrentAmount,
			Percentage:    spending.Percent(goal.CurrentAmount, goal.TargetAmount),
			Status:        goal.Status,
			Deadline:      goal.Deadline,
		}),
		DedupKey:  &key,
		ExpiresAt: &expires,
		ActionURL: "/goals/" + goal.ID,
	})
}

// DaysUntil counts calendar days from now to t in now's location.
func DaysUntil(now, t time.Time) int {
	from := spending.StartOfDay(now)
	to := spending.StartOfDay(t.In(now.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24))
}
