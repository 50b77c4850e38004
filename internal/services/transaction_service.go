package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "flesk/internal/errors"
	"flesk/internal/models"
	"flesk/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a new income or expense entry for the user.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:          userID,
		Type:            in.Type,
		Category:        in.Category,
		Amount:          in.Amount,
		Description:     in.Description,
		Date:            date.UTC(),
		IsRecurring:     in.IsRecurring,
		RecurringPeriod: in.RecurringPeriod,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
	}
	if !transaction.IsRecurring {
		transaction.RecurringPeriod = nil
	}

	if err := validateTransaction(transaction); err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	result, err := pagination.Find[models.Transaction](base, page, "date DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a user-initiated edit. The merged record is
// validated before anything is written.
func (s *transactionService) UpdateTransaction(userID, transactionID string, in TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		transaction.Type = *in.Type
	}
	if in.Category != nil {
		transaction.Category = *in.Category
	}
	if in.Amount != nil {
		transaction.Amount = *in.Amount
	}
	if in.Description != nil {
		transaction.Description = *in.Description
	}
	if in.Date != nil {
		transaction.Date = in.Date.UTC()
	}
	if in.IsRecurring != nil {
		transaction.IsRecurring = *in.IsRecurring
	}
	if in.RecurringPeriod != nil {
		transaction.RecurringPeriod = in.RecurringPeriod
	}
	if !transaction.IsRecurring {
		transaction.RecurringPeriod = nil
	}
	if in.Latitude != nil || in.Longitude != nil {
		transaction.Latitude = in.Latitude
		transaction.Longitude = in.Longitude
	}

	if err := validateTransaction(transaction); err != nil {
		return nil, err
	}

	if err := s.db.Model(transaction).Select(
		"type", "category", "amount", "description", "date",
		"is_recurring", "recurring_period", "latitude", "longitude",
	).Updates(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func validateTransaction(t *models.Transaction) error {
	if t.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	switch t.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return apperrors.ErrInvalidTransactionType
	}
	if !t.Category.IsValid() {
		return apperrors.ErrInvalidCategory
	}
	if t.IsRecurring && t.RecurringPeriod == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring_period is required for recurring transactions")
	}
	if (t.Latitude == nil) != (t.Longitude == nil) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "latitude and longitude must be provided together")
	}
	if t.Latitude != nil && (*t.Latitude < -90 || *t.Latitude > 90 || *t.Longitude < -180 || *t.Longitude > 180) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "coordinates out of range")
	}
	return nil
}
