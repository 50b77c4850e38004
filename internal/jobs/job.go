// Package jobs holds the scheduled batch jobs: budget evaluation, savings goal
// checks, subscription renewal reminders and notification cleanup.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"flesk/internal/logger"
)

// Registered job names.
const (
	NameBudgetEvaluation      = "budget-evaluation"
	NameGoalCheck             = "goal-check"
	NameSubscriptionReminders = "subscription-reminders"
	NameNotificationCleanup   = "notification-cleanup"
)

// RunContext is handed to every job invocation. Now is the logical time of
// the run in the scheduler's location.
type RunContext struct {
	Name   string
	Now    time.Time
	Logger *zap.SugaredLogger
}

func (rc RunContext) log() *zap.SugaredLogger {
	if rc.Logger != nil {
		return rc.Logger
	}
	return logger.Named("jobs").With("job", rc.Name)
}

// Job is a unit of scheduled work.
type Job interface {
	Run(ctx context.Context, rc RunContext) (*RunResult, error)
}

// Func adapts a function to Job.
type Func func(ctx context.Context, rc RunContext) (*RunResult, error)

// Run calls f.
func (f Func) Run(ctx context.Context, rc RunContext) (*RunResult, error) {
	return f(ctx, rc)
}

// RunResult summarizes one job run. Per-record failures are collected in
// Errors and never abort the run.
type RunResult struct {
	Job        string        `json:"job"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Processed  int           `json:"processed"`
	Updated    int           `json:"updated"`
	Emitted    int           `json:"emitted"`
	Duplicates int           `json:"duplicates"`
	Errors     []string      `json:"errors,omitempty"`

	mu    sync.Mutex
	start time.Time
}

// NewRunResult starts a result for rc.
func NewRunResult(rc RunContext) *RunResult {
	return &RunResult{Job: rc.Name, StartedAt: rc.Now, start: time.Now()}
}

func (r *RunResult) processed() {
	r.mu.Lock()
	r.Processed++
	r.mu.Unlock()
}

func (r *RunResult) updated(n int) {
	r.mu.Lock()
	r.Updated += n
	r.mu.Unlock()
}

func (r *RunResult) emitted(duplicate bool) {
	r.mu.Lock()
	if duplicate {
		r.Duplicates++
	} else {
		r.Emitted++
	}
	r.mu.Unlock()
}

func (r *RunResult) fail(format string, args ...any) {
	r.mu.Lock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *RunResult) finish() *RunResult {
	r.Duration = time.Since(r.start)
	return r
}

// Failed reports whether any record failed.
func (r *RunResult) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors) > 0
}
