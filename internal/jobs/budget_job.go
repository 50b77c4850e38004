package jobs

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"flesk/internal/models"
	"flesk/internal/notify"
	"flesk/internal/spending"
)

// BudgetEvaluationJob checks every active budget against current-period
// spending and emits alerts for those past their threshold.
type BudgetEvaluationJob struct {
	db      *gorm.DB
	agg     *spending.Aggregator
	emitter *notify.Emitter
	workers int
}

// NewBudgetEvaluationJob creates the job. workers bounds how many users are
// evaluated concurrently.
func NewBudgetEvaluationJob(db *gorm.DB, agg *spending.Aggregator, emitter *notify.Emitter, workers int) *BudgetEvaluationJob {
	if workers < 1 {
		workers = 1
	}
	return &BudgetEvaluationJob{db: db, agg: agg, emitter: emitter, workers: workers}
}

// Run completes budgets whose end date has passed, then evaluates the rest.
func (j *BudgetEvaluationJob) Run(ctx context.Context, rc RunContext) (*RunResult, error) {
	log := rc.log()
	res := NewRunResult(rc)
	db := j.db.WithContext(ctx)
	now := rc.Now.UTC()

	completed := db.Model(&models.Budget{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.BudgetStatusActive, now).
		Update("status", models.BudgetStatusCompleted)
	if completed.Error != nil {
		log.Errorw("failed to complete ended budgets", "error", completed.Error)
		res.fail("complete ended budgets: %v", completed.Error)
	} else if completed.RowsAffected > 0 {
		log.Infow("completed ended budgets", "count", completed.RowsAffected)
		res.updated(int(completed.RowsAffected))
	}

	var budgets []models.Budget
	if err := db.Where("status = ? AND start_date <= ?", models.BudgetStatusActive, now).
		Order("user_id").Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("load active budgets: %w", err)
	}

	byUser := make(map[string][]models.Budget)
	for _, b := range budgets {
		byUser[b.UserID] = append(byUser[b.UserID], b)
	}

	// Each user's budgets belong to exactly one goroutine.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)
	for userID, list := range byUser {
		g.Go(func() error {
			j.evaluateUser(gctx, rc, userID, list, res)
			return nil
		})
	}
	_ = g.Wait()

	log.Infow("budget evaluation complete",
		"users", len(byUser),
		"budgets", len(budgets),
		"alerts", res.Emitted,
		"duplicates", res.Duplicates,
		"errors", len(res.Errors),
	)
	return res.finish(), nil
}

func (j *BudgetEvaluationJob) evaluateUser(ctx context.Context, rc RunContext, userID string, budgets []models.Budget, res *RunResult) {
	log := rc.log().With("user_id", userID)
	totalsByWindow := make(map[string]map[models.Category]int64)

	for _, b := range budgets {
		if ctx.Err() != nil {
			res.fail("user %s: %v", userID, ctx.Err())
			return
		}

		w := spending.WindowFor(b.Period, rc.Now, nil)
		totals, ok := totalsByWindow[w.Key]
		if !ok {
			var err error
			totals, err = j.agg.SumExpenses(ctx, userID, nil, w.Start, w.End)
			if err != nil {
				log.Errorw("failed to aggregate spending", "error", err, "budget_id", b.ID, "window", w.Key)
				res.fail("budget %s: %v", b.ID, err)
				continue
			}
			totalsByWindow[w.Key] = totals
		}

		ev := spending.Evaluate(b, totals[b.Category])
		res.processed()
		if !ev.NeedsNotification {
			continue
		}

		out, err := j.emitter.EmitBudgetAlert(ctx, b, w, ev)
		if err != nil {
			log.Errorw("failed to emit budget alert", "error", err, "budget_id", b.ID)
			res.fail("budget %s: %v", b.ID, err)
			continue
		}
		res.emitted(out.Duplicate)
		if !out.Duplicate {
			log.Infow("budget alert emitted",
				"budget_id", b.ID,
				"category", b.Category,
				"percentage", ev.Percentage,
				"window", w.Key,
			)
		}
	}
}
