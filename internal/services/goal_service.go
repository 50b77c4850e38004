package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "flesk/internal/errors"
	"flesk/internal/logger"
	"flesk/internal/models"
	"flesk/internal/notify"
	"flesk/internal/pagination"
)

// goalService handles savings goal business logic.
type goalService struct {
	db      *gorm.DB
	emitter *notify.Emitter
	now     func() time.Time
}

// NewGoalService creates a new GoalServicer. emitter may be nil, in which
// case reaching a goal through a contribution is left for the goal check job
// to announce.
func NewGoalService(db *gorm.DB, emitter *notify.Emitter) GoalServicer {
	return &goalService{db: db, emitter: emitter, now: time.Now}
}

// CreateGoal creates a new in-progress savings goal.
func (s *goalService) CreateGoal(userID string, in GoalInput) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      utcPtr(in.Deadline),
		Status:        models.GoalStatusInProgress,
	}

	if err := validateGoal(goal); err != nil {
		return nil, err
	}
	if goal.CurrentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current_amount must not be negative")
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// GetUserGoals returns a paginated list of goals, optionally filtered by status.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.SavingsGoal], error) {
	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	result, err := pagination.Find[models.SavingsGoal](base, page, "created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	return findGoal(s.db, userID, goalID)
}

// UpdateGoal changes a goal's name, target or deadline.
func (s *goalService) UpdateGoal(userID, goalID string, in GoalUpdate) (*models.SavingsGoal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		goal.Name = *in.Name
	}
	if in.TargetAmount != nil {
		goal.TargetAmount = *in.TargetAmount
	}
	if in.Deadline != nil {
		goal.Deadline = utcPtr(in.Deadline)
	}

	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	if err := s.db.Model(goal).Select("name", "target_amount", "deadline").Updates(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal soft-deletes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute adds amount to an in-progress goal. A goal that reaches its
// target is marked achieved and the achievement notification is emitted.
func (s *goalService) Contribute(ctx context.Context, userID, goalID string, amount int64) (*models.SavingsGoal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var goal *models.SavingsGoal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := findGoal(tx, userID, goalID)
		if err != nil {
			return err
		}
		if g.Status != models.GoalStatusInProgress {
			return apperrors.ErrGoalNotActive
		}

		if err := tx.Model(g).
			Update("current_amount", gorm.Expr("current_amount + ?", amount)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.First(g, "id = ?", g.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if g.CurrentAmount >= g.TargetAmount {
			if err := tx.Model(g).Update("status", models.GoalStatusAchieved).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			g.Status = models.GoalStatusAchieved
		}
		goal = g
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if goal.Status == models.GoalStatusAchieved && s.emitter != nil {
		if _, err := s.emitter.EmitGoalProgress(ctx, *goal, notify.GoalMilestoneAchieved, s.now()); err != nil {
			logger.Get().Errorw("failed to emit goal achieved notification", "error", err, "goal_id", goal.ID)
		}
	}
	return goal, nil
}

func findGoal(db *gorm.DB, userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

func validateGoal(goal *models.SavingsGoal) error {
	if goal.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if goal.TargetAmount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be greater than zero")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
