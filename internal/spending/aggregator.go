// Package spending sums expense transactions over budget period windows and
// evaluates budgets against what was spent.
package spending

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"flesk/internal/models"
)

// Aggregator computes per-category expense totals from the transaction ledger.
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates an Aggregator reading from db.
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

type categoryTotal struct {
	Category models.Category
	Total    int64
}

// SumExpenses returns the sum of expense amounts per category for the user
// with start <= date < end. A nil or empty categories slice means all
// categories. Categories without matching transactions are absent from the
// result; callers treat absence as zero. Income is never included.
func (a *Aggregator) SumExpenses(
	ctx context.Context,
	userID string,
	categories []models.Category,
	start, end time.Time,
) (map[models.Category]int64, error) {
	q := a.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, models.TransactionTypeExpense, start.UTC(), end.UTC())
	if len(categories) > 0 {
		q = q.Where("category IN ?", categories)
	}

	var rows []categoryTotal
	if err := q.Group("category").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum expenses for user %s: %w", userID, err)
	}

	totals := make(map[models.Category]int64, len(rows))
	for _, r := range rows {
		totals[r.Category] = r.Total
	}
	return totals, nil
}

// SumCategory returns the expense total for a single category, or 0 if
// nothing was spent in it.
func (a *Aggregator) SumCategory(
	ctx context.Context,
	userID string,
	category models.Category,
	start, end time.Time,
) (int64, error) {
	totals, err := a.SumExpenses(ctx, userID, []models.Category{category}, start, end)
	if err != nil {
		return 0, err
	}
	return totals[category], nil
}
