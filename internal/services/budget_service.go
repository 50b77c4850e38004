package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "flesk/internal/errors"
	"flesk/internal/models"
	"flesk/internal/pagination"
	"flesk/internal/spending"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db  *gorm.DB
	agg *spending.Aggregator
	loc *time.Location
	now func() time.Time
}

// NewBudgetService creates a new BudgetServicer. loc sets the calendar used
// for period windows and defaults to UTC.
func NewBudgetService(db *gorm.DB, agg *spending.Aggregator, loc *time.Location) BudgetServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &budgetService{db: db, agg: agg, loc: loc, now: time.Now}
}

// CreateBudget creates a new budget for a category.
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*models.Budget, error) {
	budget := &models.Budget{
		UserID:                userID,
		Category:              in.Category,
		Name:                  in.Name,
		Amount:                in.Amount,
		Period:                in.Period,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		NotificationsEnabled:  true,
		NotificationThreshold: models.DefaultNotificationThreshold,
		Status:                models.BudgetStatusActive,
	}
	if budget.StartDate.IsZero() {
		budget.StartDate = s.now()
	}
	budget.StartDate = budget.StartDate.UTC()
	if budget.EndDate != nil {
		end := budget.EndDate.UTC()
		budget.EndDate = &end
	}
	if in.NotificationsEnabled != nil {
		budget.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.NotificationThreshold != nil {
		budget.NotificationThreshold = *in.NotificationThreshold
	}

	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets for the user with optional filters.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error) {
	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Period != nil {
		base = base.Where("period = ?", *filter.Period)
	}
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}

	result, err := pagination.Find[models.Budget](base, page, "created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(userID, budgetID string, in BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		budget.Name = *in.Name
	}
	if in.Amount != nil {
		budget.Amount = *in.Amount
	}
	if in.Period != nil {
		budget.Period = *in.Period
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		budget.EndDate = &end
	}
	if in.NotificationsEnabled != nil {
		budget.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.NotificationThreshold != nil {
		budget.NotificationThreshold = *in.NotificationThreshold
	}
	if in.Status != nil {
		budget.Status = *in.Status
	}

	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Select(
		"name", "amount", "period", "end_date",
		"notifications_enabled", "notification_threshold", "status",
	).Updates(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress evaluates the budget against spending in its current period window.
func (s *budgetService) GetBudgetProgress(ctx context.Context, userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	w := spending.WindowFor(budget.Period, s.now(), s.loc)
	spent, err := s.agg.SumCategory(ctx, userID, budget.Category, w.Start, w.End)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &BudgetProgress{
		BudgetID:    budget.ID,
		Category:    budget.Category,
		Period:      budget.Period,
		PeriodKey:   w.Key,
		WindowStart: w.Start,
		WindowEnd:   w.End,
		Evaluation:  spending.Evaluate(*budget, spent),
	}, nil
}

func validateBudget(b *models.Budget) error {
	if b.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !b.Category.IsValid() {
		return apperrors.ErrInvalidCategory
	}
	if b.NotificationThreshold < 0 || b.NotificationThreshold > 100 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "notification_threshold must be between 0 and 100")
	}
	switch b.Period {
	case models.BudgetPeriodDaily, models.BudgetPeriodWeekly, models.BudgetPeriodMonthly, models.BudgetPeriodYearly:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be daily, weekly, monthly or yearly")
	}
	switch b.Status {
	case models.BudgetStatusActive, models.BudgetStatusPaused, models.BudgetStatusCompleted:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be active, paused or completed")
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date")
	}
	return nil
}
