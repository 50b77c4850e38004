package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "flesk/internal/errors"
	"flesk/internal/models"
	"flesk/internal/spending"
)

// PredictionFactor scales last month's spending into next month's estimate.
var PredictionFactor = decimal.RequireFromString("1.10")

// analyticsService computes spending breakdowns from the ledger.
type analyticsService struct {
	agg *spending.Aggregator
	loc *time.Location
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsServicer. loc sets the calendar
// used to find the previous month and defaults to UTC.
func NewAnalyticsService(agg *spending.Aggregator, loc *time.Location) AnalyticsServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &analyticsService{agg: agg, loc: loc, now: time.Now}
}

// GetCategorySummary totals expenses per category over [from, to).
func (s *analyticsService) GetCategorySummary(ctx context.Context, userID string, from, to time.Time) (*CategorySummary, error) {
	if !to.After(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be after from")
	}

	totals, err := s.agg.SumExpenses(ctx, userID, nil, from, to)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &CategorySummary{From: from.UTC(), To: to.UTC(), Categories: []CategoryTotal{}}
	for _, total := range totals {
		summary.Total += total
	}
	for category, total := range totals {
		summary.Categories = append(summary.Categories, CategoryTotal{
			Category:   category,
			Total:      total,
			Percentage: spending.Percent(total, summary.Total),
		})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	return summary, nil
}

// GetPrediction projects next month's spending as the last full calendar
// month's category totals scaled by PredictionFactor, rounded to the cent.
func (s *analyticsService) GetPrediction(ctx context.Context, userID string) (*Prediction, error) {
	current := spending.WindowFor(models.BudgetPeriodMonthly, s.now(), s.loc)
	last := spending.WindowFor(models.BudgetPeriodMonthly, current.Start.AddDate(0, -1, 0), s.loc)

	totals, err := s.agg.SumExpenses(ctx, userID, nil, last.Start, last.End)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prediction := &Prediction{
		BasedOn:    last.Key,
		Factor:     PredictionFactor.StringFixed(2),
		Categories: []CategoryPrediction{},
	}
	for category, total := range totals {
		predicted := decimal.NewFromInt(total).Mul(PredictionFactor).Round(0).IntPart()
		prediction.TotalLastMonth += total
		prediction.TotalPredicted += predicted
		prediction.Categories = append(prediction.Categories, CategoryPrediction{
			Category:  category,
			LastMonth: total,
			Predicted: predicted,
		})
	}
	sort.Slice(prediction.Categories, func(i, j int) bool {
		return prediction.Categories[i].Category < prediction.Categories[j].Category
	})
	return prediction, nil
}
