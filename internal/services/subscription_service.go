package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "flesk/internal/errors"
	"flesk/internal/models"
	"flesk/internal/pagination"
	"flesk/internal/spending"
)

// subscriptionService handles subscription-related business logic.
type subscriptionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db, now: time.Now}
}

// CreateSubscription records a recurring charge. Billing cycle defaults to
// monthly and category to subscriptions.
func (s *subscriptionService) CreateSubscription(userID string, in SubscriptionInput) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:       userID,
		Name:         in.Name,
		Amount:       in.Amount,
		RenewalDate:  in.RenewalDate.UTC(),
		BillingCycle: in.BillingCycle,
		Category:     in.Category,
		IsActive:     true,
	}
	if sub.BillingCycle == "" {
		sub.BillingCycle = models.BillingCycleMonthly
	}
	if sub.Category == "" {
		sub.Category = models.CategorySubscriptions
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}

	if err := validateSubscription(sub); err != nil {
		return nil, err
	}

	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// GetUserSubscriptions returns a paginated list of subscriptions ordered by next renewal.
func (s *subscriptionService) GetUserSubscriptions(userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Subscription], error) {
	base := s.db.Model(&models.Subscription{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	result, err := pagination.Find[models.Subscription](base, page, "renewal_date ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetSubscriptionByID returns a subscription by ID if it belongs to the user.
func (s *subscriptionService) GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// UpdateSubscription updates an existing subscription's fields.
func (s *subscriptionService) UpdateSubscription(userID, subscriptionID string, in SubscriptionUpdate) (*models.Subscription, error) {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		sub.Name = *in.Name
	}
	if in.Amount != nil {
		sub.Amount = *in.Amount
	}
	if in.RenewalDate != nil {
		sub.RenewalDate = in.RenewalDate.UTC()
	}
	if in.BillingCycle != nil {
		sub.BillingCycle = *in.BillingCycle
	}
	if in.Category != nil {
		sub.Category = *in.Category
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}

	if err := validateSubscription(sub); err != nil {
		return nil, err
	}

	if err := s.db.Model(sub).Select(
		"name", "amount", "renewal_date", "billing_cycle", "category", "is_active",
	).Updates(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// DeleteSubscription soft-deletes a subscription.
func (s *subscriptionService) DeleteSubscription(userID, subscriptionID string) error {
	sub, err := s.GetSubscriptionByID(userID, subscriptionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(sub).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUpcomingRenewals returns active subscriptions renewing between the start
// of today and days from now, soonest first.
func (s *subscriptionService) GetUpcomingRenewals(userID string, days int) ([]models.Subscription, error) {
	if days <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be greater than zero")
	}

	now := s.now().UTC()
	var subs []models.Subscription
	if err := s.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("renewal_date >= ? AND renewal_date <= ?", spending.StartOfDay(now), now.AddDate(0, 0, days)).
		Order("renewal_date ASC").
		Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

func validateSubscription(sub *models.Subscription) error {
	if sub.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if sub.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if sub.RenewalDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "renewal_date is required")
	}
	switch sub.BillingCycle {
	case models.BillingCycleWeekly, models.BillingCycleMonthly, models.BillingCycleYearly:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "billing_cycle must be weekly, monthly or yearly")
	}
	if !sub.Category.IsValid() {
		return apperrors.ErrInvalidCategory
	}
	return nil
}
