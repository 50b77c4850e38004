package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"flesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction with the given type, category and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category models.Category, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Category:    category,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date.UTC(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active monthly budget of $1000.00 alerting at 80%.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, category models.Category) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:                userID,
		Category:              category,
		Name:                  fmt.Sprintf("Test Budget %d", nextID()),
		Amount:                100000,
		Period:                models.BudgetPeriodMonthly,
		StartDate:             time.Now().UTC().AddDate(0, -1, 0),
		NotificationsEnabled:  true,
		NotificationThreshold: models.DefaultNotificationThreshold,
		Status:                models.BudgetStatusActive,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestSubscription creates an active monthly subscription renewing at renewal.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID string, renewal time.Time) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Subscription %d", nextID()),
		Amount:       1599,
		RenewalDate:  renewal.UTC(),
		BillingCycle: models.BillingCycleMonthly,
		Category:     models.CategorySubscriptions,
		IsActive:     true,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}

// CreateTestGoal creates an in-progress savings goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target, current int64, deadline *time.Time) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
		Status:        models.GoalStatusInProgress,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestNotification creates an unread system notification.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:   userID,
		Type:     models.NotificationSystem,
		Title:    fmt.Sprintf("Test Notification %d", nextID()),
		Message:  "hello",
		Priority: models.PriorityLow,
		Status:   models.NotificationUnread,
		Data:     models.NewNotificationData(models.SystemPayload{Code: "TEST"}),
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
