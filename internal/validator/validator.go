// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"flesk/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category", validateCategory)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("recurring_period", validateRecurringPeriod)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("budget_status", validateBudgetStatus)
		_ = v.RegisterValidation("billing_cycle", validateBillingCycle)
		_ = v.RegisterValidation("notification_type", validateNotificationType)
		_ = v.RegisterValidation("notification_priority", validateNotificationPriority)
		_ = v.RegisterValidation("notification_status", validateNotificationStatus)
	}
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return true
	}
	return false
}

func validateRecurringPeriod(fl validator.FieldLevel) bool {
	switch models.RecurringPeriod(fl.Field().String()) {
	case models.RecurringDaily, models.RecurringWeekly, models.RecurringMonthly, models.RecurringYearly:
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch models.BudgetPeriod(fl.Field().String()) {
	case models.BudgetPeriodDaily, models.BudgetPeriodWeekly, models.BudgetPeriodMonthly, models.BudgetPeriodYearly:
		return true
	}
	return false
}

func validateBudgetStatus(fl validator.FieldLevel) bool {
	switch models.BudgetStatus(fl.Field().String()) {
	case models.BudgetStatusActive, models.BudgetStatusPaused, models.BudgetStatusCompleted:
		return true
	}
	return false
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	switch models.BillingCycle(fl.Field().String()) {
	case models.BillingCycleWeekly, models.BillingCycleMonthly, models.BillingCycleYearly:
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	return models.NotificationType(fl.Field().String()).IsValid()
}

func validateNotificationPriority(fl validator.FieldLevel) bool {
	switch models.NotificationPriority(fl.Field().String()) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

func validateNotificationStatus(fl validator.FieldLevel) bool {
	switch models.NotificationStatus(fl.Field().String()) {
	case models.NotificationUnread, models.NotificationRead, models.NotificationArchived:
		return true
	}
	return false
}
