package jobs

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flesk/internal/models"
)

// NotificationCleanupJob hard-deletes notifications past their expiry.
type NotificationCleanupJob struct {
	db *gorm.DB
}

// NewNotificationCleanupJob creates the job.
func NewNotificationCleanupJob(db *gorm.DB) *NotificationCleanupJob {
	return &NotificationCleanupJob{db: db}
}

// Run deletes every notification with expires_at <= now.
func (j *NotificationCleanupJob) Run(ctx context.Context, rc RunContext) (*RunResult, error) {
	res := NewRunResult(rc)

	del := j.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", rc.Now.UTC()).
		Delete(&models.Notification{})
	if del.Error != nil {
		return nil, fmt.Errorf("delete expired notifications: %w", del.Error)
	}
	res.updated(int(del.RowsAffected))

	rc.log().Infow("notification cleanup complete", "deleted", del.RowsAffected)
	return res.finish(), nil
}
