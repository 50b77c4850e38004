package services

import (
	"context"
	"time"

	"flesk/internal/models"
	"flesk/internal/pagination"
	"flesk/internal/spending"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *models.Category
	MinAmount *int64
	MaxAmount *int64
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	Type            models.TransactionType
	Category        models.Category
	Amount          int64
	Description     string
	Date            time.Time
	IsRecurring     bool
	RecurringPeriod *models.RecurringPeriod
	Latitude        *float64
	Longitude       *float64
}

// TransactionUpdate holds the fields to change on a transaction. Nil fields are left as-is.
type TransactionUpdate struct {
	Type            *models.TransactionType
	Category        *models.Category
	Amount          *int64
	Description     *string
	Date            *time.Time
	IsRecurring     *bool
	RecurringPeriod *models.RecurringPeriod
	Latitude        *float64
	Longitude       *float64
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, in TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetInput holds the fields of a new budget.
type BudgetInput struct {
	Category              models.Category
	Name                  string
	Amount                int64
	Period                models.BudgetPeriod
	StartDate             time.Time
	EndDate               *time.Time
	NotificationsEnabled  *bool
	NotificationThreshold *int
}

// BudgetUpdate holds the fields to change on a budget. Nil fields are left as-is.
type BudgetUpdate struct {
	Name                  *string
	Amount                *int64
	Period                *models.BudgetPeriod
	EndDate               *time.Time
	NotificationsEnabled  *bool
	NotificationThreshold *int
	Status                *models.BudgetStatus
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Status   *models.BudgetStatus
	Period   *models.BudgetPeriod
	Category *models.Category
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID    string              `json:"budget_id"`
	Category    models.Category     `json:"category"`
	Period      models.BudgetPeriod `json:"period"`
	PeriodKey   string              `json:"period_key"`
	WindowStart time.Time           `json:"window_start"`
	WindowEnd   time.Time           `json:"window_end"`
	spending.Evaluation
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, in BudgetInput) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, in BudgetUpdate) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(ctx context.Context, userID, budgetID string) (*BudgetProgress, error)
}

// SubscriptionInput holds the fields of a new subscription.
type SubscriptionInput struct {
	Name         string
	Amount       int64
	RenewalDate  time.Time
	BillingCycle models.BillingCycle
	Category     models.Category
	IsActive     *bool
}

// SubscriptionUpdate holds the fields to change on a subscription. Nil fields are left as-is.
type SubscriptionUpdate struct {
	Name         *string
	Amount       *int64
	RenewalDate  *time.Time
	BillingCycle *models.BillingCycle
	Category     *models.Category
	IsActive     *bool
}

// SubscriptionServicer defines the contract for subscription-related business logic.
type SubscriptionServicer interface {
	CreateSubscription(userID string, in SubscriptionInput) (*models.Subscription, error)
	GetUserSubscriptions(userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Subscription], error)
	GetSubscriptionByID(userID, subscriptionID string) (*models.Subscription, error)
	UpdateSubscription(userID, subscriptionID string, in SubscriptionUpdate) (*models.Subscription, error)
	DeleteSubscription(userID, subscriptionID string) error
	GetUpcomingRenewals(userID string, days int) ([]models.Subscription, error)
}

// GoalInput holds the fields of a new savings goal.
type GoalInput struct {
	Name          string
	TargetAmount  int64
	CurrentAmount int64
	Deadline      *time.Time
}

// GoalUpdate holds the fields to change on a savings goal. Nil fields are left as-is.
type GoalUpdate struct {
	Name         *string
	TargetAmount *int64
	Deadline     *time.Time
}

// GoalServicer defines the contract for savings goal business logic.
type GoalServicer interface {
	CreateGoal(userID string, in GoalInput) (*models.SavingsGoal, error)
	GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID string, in GoalUpdate) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID string) error
	Contribute(ctx context.Context, userID, goalID string, amount int64) (*models.SavingsGoal, error)
}

// NotificationFilter holds optional filter parameters for listing notifications.
type NotificationFilter struct {
	Status *models.NotificationStatus
	Type   *models.NotificationType
}

// NotificationInput holds the fields of a user-created notification.
type NotificationInput struct {
	Type           models.NotificationType
	Title          string
	Message        string
	Priority       models.NotificationPriority
	Data           models.NotificationData
	ExpiresAt      *time.Time
	ActionRequired bool
	ActionURL      string
}

// NotificationServicer defines the contract for notification business logic.
type NotificationServicer interface {
	GetUserNotifications(userID string, page pagination.PageRequest, filter NotificationFilter) (*pagination.PageResponse[models.Notification], error)
	GetUnreadCount(userID string) (int64, error)
	CreateNotification(ctx context.Context, userID string, in NotificationInput) (*models.Notification, error)
	GetNotificationByID(userID, notificationID string) (*models.Notification, error)
	MarkAsRead(userID, notificationID string) (*models.Notification, error)
	MarkAllAsRead(userID string) (int64, error)
	Archive(userID, notificationID string) (*models.Notification, error)
	DeleteNotification(userID, notificationID string) error
}

// CategoryTotal is the spend for one category over a range.
type CategoryTotal struct {
	Category   models.Category `json:"category"`
	Total      int64           `json:"total"`
	Percentage float64         `json:"percentage"`
}

// CategorySummary breaks down expenses by category over [From, To).
type CategorySummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Total      int64           `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// CategoryPrediction is the projected spend for one category next month.
type CategoryPrediction struct {
	Category  models.Category `json:"category"`
	LastMonth int64           `json:"last_month"`
	Predicted int64           `json:"predicted"`
}

// Prediction projects next month's spending from the last full month.
type Prediction struct {
	BasedOn        string               `json:"based_on"`
	Factor         string               `json:"factor"`
	TotalLastMonth int64                `json:"total_last_month"`
	TotalPredicted int64                `json:"total_predicted"`
	Categories     []CategoryPrediction `json:"categories"`
}

// AnalyticsServicer defines the contract for spending analytics.
type AnalyticsServicer interface {
	GetCategorySummary(ctx context.Context, userID string, from, to time.Time) (*CategorySummary, error)
	GetPrediction(ctx context.Context, userID string) (*Prediction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
