package spending

import (
	"github.com/shopspring/decimal"

	"flesk/internal/models"
)

// HighPriorityPercentage is the usage percentage at which budget alerts
// become high priority.
const HighPriorityPercentage = 90

var hundred = decimal.NewFromInt(100)

// Evaluation is the verdict for one budget over one period window.
type Evaluation struct {
	Amount            int64   `json:"amount"`
	Spent             int64   `json:"spent"`
	Remaining         int64   `json:"remaining"`
	Percentage        float64 `json:"percentage"`
	IsOverBudget      bool    `json:"is_over_budget"`
	NeedsNotification bool    `json:"needs_notification"`
	// Degenerate is set when the budget amount is not positive and the
	// percentage was assigned rather than computed.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Evaluate compares spent against the budget's limit. It performs no I/O.
//
// A budget with amount <= 0 reports 100% once anything is spent and 0%
// otherwise.
func Evaluate(budget models.Budget, spent int64) Evaluation {
	ev := Evaluation{
		Amount:       budget.Amount,
		Spent:        spent,
		Remaining:    budget.Amount - spent,
		IsOverBudget: spent > budget.Amount,
	}

	var pct decimal.Decimal
	if budget.Amount <= 0 {
		ev.Degenerate = true
		pct = decimal.Zero
		if spent > 0 {
			pct = hundred
		}
	} else {
		pct = decimal.NewFromInt(spent).Mul(hundred).Div(decimal.NewFromInt(budget.Amount))
	}
	ev.NeedsNotification = budget.NotificationsEnabled && reached(budget.Amount, spent, budget.NotificationThreshold)

	ev.Percentage = pct.Round(2).InexactFloat64()
	return ev
}

// Priority derives the alert priority from how much of the budget is used.
func Priority(ev Evaluation) models.NotificationPriority {
	if reached(ev.Amount, ev.Spent, HighPriorityPercentage) {
		return models.PriorityHigh
	}
	return models.PriorityMedium
}

// reached reports whether spent is at least pct percent of amount. It compares
// spent*100 with pct*amount so display rounding never moves a verdict. A
// non-positive amount counts as 100% used once anything is spent.
func reached(amount, spent int64, pct int) bool {
	if amount <= 0 {
		used := int64(0)
		if spent > 0 {
			used = 100
		}
		return used >= int64(pct)
	}
	return decimal.NewFromInt(spent).Mul(hundred).
		GreaterThanOrEqual(decimal.NewFromInt(int64(pct)).Mul(decimal.NewFromInt(amount)))
}

// Percent returns part/whole*100 rounded to two places, or 0 when whole is
// not positive.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(2).InexactFloat64()
}
