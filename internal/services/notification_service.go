package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "flesk/internal/errors"
	"flesk/internal/models"
	"flesk/internal/notify"
	"flesk/internal/pagination"
)

// notificationService handles notification business logic.
type notificationService struct {
	db      *gorm.DB
	emitter *notify.Emitter
	now     func() time.Time
}

// NewNotificationService creates a new NotificationServicer. Notifications
// created through the API go through emitter so they reach the same
// publishers as job-generated ones.
func NewNotificationService(db *gorm.DB, emitter *notify.Emitter) NotificationServicer {
	return &notificationService{db: db, emitter: emitter, now: time.Now}
}

// visible restricts a query to the user's notifications that have not expired.
func (s *notificationService) visible(userID string) *gorm.DB {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", s.now().UTC())
}

// GetUserNotifications returns a paginated list of unexpired notifications,
// newest first. Archived notifications are listed only when asked for by status.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest, filter NotificationFilter) (*pagination.PageResponse[models.Notification], error) {
	base := s.visible(userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	} else {
		base = base.Where("status <> ?", models.NotificationArchived)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}

	result, err := pagination.Find[models.Notification](base, page, "created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetUnreadCount returns the number of unread, unexpired notifications.
func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	var count int64
	if err := s.visible(userID).Where("status = ?", models.NotificationUnread).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// CreateNotification stores a user-supplied notification. It carries no
// dedup key, so it is always inserted.
func (s *notificationService) CreateNotification(ctx context.Context, userID string, in NotificationInput) (*models.Notification, error) {
	if in.Title == "" || in.Message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title and message are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, medium or high")
	}

	n := &models.Notification{
		UserID:         userID,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		Priority:       priority,
		Status:         models.NotificationUnread,
		Data:           in.Data,
		ExpiresAt:      utcPtr(in.ExpiresAt),
		ActionRequired: in.ActionRequired,
		ActionURL:      in.ActionURL,
	}
	if err := n.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidNotificationData, err)
	}

	res, err := s.emitter.Emit(ctx, n)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return res.Notification, nil
}

// GetNotificationByID returns a notification by ID if it belongs to the user.
func (s *notificationService) GetNotificationByID(userID, notificationID string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &n, nil
}

// MarkAsRead marks a notification read. Reading an already read or archived
// notification leaves it unchanged.
func (s *notificationService) MarkAsRead(userID, notificationID string) (*models.Notification, error) {
	n, err := s.GetNotificationByID(userID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.Status != models.NotificationUnread {
		return n, nil
	}

	readAt := s.now().UTC()
	if err := s.db.Model(n).Updates(map[string]any{
		"status":  models.NotificationRead,
		"read_at": readAt,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	n.Status = models.NotificationRead
	n.ReadAt = &readAt
	return n, nil
}

// MarkAllAsRead marks every unread notification of the user read and
// returns how many changed.
func (s *notificationService) MarkAllAsRead(userID string) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationUnread).
		Updates(map[string]any{
			"status":  models.NotificationRead,
			"read_at": s.now().UTC(),
		})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// Archive moves a notification out of the default listing.
func (s *notificationService) Archive(userID, notificationID string) (*models.Notification, error) {
	n, err := s.GetNotificationByID(userID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.Status == models.NotificationArchived {
		return n, nil
	}

	if err := s.db.Model(n).Update("status", models.NotificationArchived).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	n.Status = models.NotificationArchived
	return n, nil
}

// DeleteNotification permanently removes a notification.
func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	n, err := s.GetNotificationByID(userID, notificationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
