package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"flesk/internal/models"
	"flesk/internal/notify"
)

// GoalDeadlineReminder is how close to its deadline an unfinished goal gets a reminder.
const GoalDeadlineReminder = 7 * 24 * time.Hour

// GoalCheckJob marks savings goals achieved or expired and reminds users of
// approaching deadlines.
type GoalCheckJob struct {
	db      *gorm.DB
	emitter *notify.Emitter
}

// NewGoalCheckJob creates the job.
func NewGoalCheckJob(db *gorm.DB, emitter *notify.Emitter) *GoalCheckJob {
	return &GoalCheckJob{db: db, emitter: emitter}
}

// Run checks every in-progress goal.
func (j *GoalCheckJob) Run(ctx context.Context, rc RunContext) (*RunResult, error) {
	log := rc.log()
	res := NewRunResult(rc)
	db := j.db.WithContext(ctx)

	var goals []models.SavingsGoal
	if err := db.Where("status = ?", models.GoalStatusInProgress).Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}

	for _, goal := range goals {
		res.processed()

		var milestone string
		var status models.GoalStatus
		switch {
		case goal.CurrentAmount >= goal.TargetAmount:
			milestone, status = notify.GoalMilestoneAchieved, models.GoalStatusAchieved
		case goal.Deadline != nil && goal.Deadline.Before(rc.Now):
			milestone, status = notify.GoalMilestoneExpired, models.GoalStatusExpired
		case goal.Deadline != nil && !goal.Deadline.After(rc.Now.Add(GoalDeadlineReminder)):
			milestone = notify.GoalMilestoneDeadline
		default:
			continue
		}

		if status != "" {
			upd := db.Model(&models.SavingsGoal{}).
				Where("id = ? AND status = ?", goal.ID, models.GoalStatusInProgress).
				Update("status", status)
			if upd.Error != nil {
				log.Errorw("failed to update goal status", "error", upd.Error, "goal_id", goal.ID)
				res.fail("goal %s: %v", goal.ID, upd.Error)
				continue
			}
			if upd.RowsAffected == 0 {
				// Another writer, e.g. a contribution, already moved the goal on.
				log.Debugw("goal no longer in progress", "goal_id", goal.ID)
				continue
			}
			res.updated(int(upd.RowsAffected))
			goal.Status = status
		}

		out, err := j.emitter.EmitGoalProgress(ctx, goal, milestone, rc.Now)
		if err != nil {
			log.Errorw("failed to emit goal notification", "error", err, "goal_id", goal.ID)
			res.fail("goal %s: %v", goal.ID, err)
			continue
		}
		res.emitted(out.Duplicate)
	}

	log.Infow("goal check complete",
		"goals", len(goals),
		"status_changes", res.Updated,
		"notifications", res.Emitted,
		"errors", len(res.Errors),
	)
	return res.finish(), nil
}
