// Package scheduler is a named registry of cron-triggered jobs.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	apperrors "flesk/internal/errors"
	"flesk/internal/jobs"
	"flesk/internal/logger"
)

// Entry describes a registered job.
type Entry struct {
	Name       string          `json:"name"`
	Spec       string          `json:"spec"`
	Next       time.Time       `json:"next"`
	Prev       *time.Time      `json:"prev,omitempty"`
	LastResult *jobs.RunResult `json:"last_result,omitempty"`
	LastError  string          `json:"last_error,omitempty"`
}

type registration struct {
	name     string
	spec     string
	schedule cron.Schedule
	job      jobs.Job
	id       cron.EntryID

	running sync.Mutex

	mu      sync.Mutex
	prev    *time.Time
	lastRes *jobs.RunResult
	lastErr string
}

// Scheduler owns a cron runner and the jobs registered on it.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
	now  func() time.Time
	log  *zap.SugaredLogger

	mu   sync.RWMutex
	jobs map[string]*registration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation sets the time zone triggers fire in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Scheduler. Nothing fires until Start is called.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		loc:  time.UTC,
		now:  time.Now,
		log:  logger.Named("scheduler"),
		jobs: make(map[string]*registration),
	}
	for _, opt := range opts {
		opt(s)
	}

	cl := cronLogger{s.log}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return s
}

// Register adds job under name, triggered by a standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, job jobs.Job) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parse schedule %q for job %s: %w", spec, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	reg := &registration{name: name, spec: spec, schedule: schedule, job: job}
	reg.id = s.cron.Schedule(schedule, cron.FuncJob(func() {
		if _, err := s.execute(context.Background(), reg); err != nil {
			s.log.Errorw("scheduled job failed", "job", name, "error", err)
		}
	}))
	s.jobs[name] = reg

	s.log.Infow("job registered", "job", name, "spec", spec)
	return nil
}

// Start begins firing triggers in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infow("scheduler started", "jobs", len(s.jobs), "location", s.loc.String())
}

// Stop halts the triggers. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.log.Info("scheduler stopped")
	return ctx
}

// RunNow runs the named job synchronously, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) (*jobs.RunResult, error) {
	s.mu.RLock()
	reg, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	return s.execute(ctx, reg)
}

// Entries lists registered jobs ordered by name.
func (s *Scheduler) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.jobs))
	for _, reg := range s.jobs {
		next := s.cron.Entry(reg.id).Next
		if next.IsZero() {
			next = reg.schedule.Next(s.now().In(s.loc))
		}

		reg.mu.Lock()
		out = append(out, Entry{
			Name:       reg.name,
			Spec:       reg.spec,
			Next:       next,
			Prev:       reg.prev,
			LastResult: reg.lastRes,
			LastError:  reg.lastErr,
		})
		reg.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) execute(ctx context.Context, reg *registration) (*jobs.RunResult, error) {
	if !reg.running.TryLock() {
		s.log.Warnw("job still running, skipping", "job", reg.name)
		return nil, apperrors.ErrJobAlreadyRunning
	}
	defer reg.running.Unlock()

	now := s.now().In(s.loc)
	rc := jobs.RunContext{
		Name:   reg.name,
		Now:    now,
		Logger: s.log.With("job", reg.name),
	}

	s.log.Infow("job started", "job", reg.name, "now", now)
	res, err := reg.job.Run(ctx, rc)
	if err == nil && res == nil {
		res = jobs.NewRunResult(rc)
	}

	reg.mu.Lock()
	reg.prev = &now
	reg.lastRes = res
	reg.lastErr = ""
	if err != nil {
		reg.lastErr = err.Error()
	}
	reg.mu.Unlock()

	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrJobFailed, err)
	}
	s.log.Infow("job finished",
		"job", reg.name,
		"duration", res.Duration,
		"processed", res.Processed,
		"emitted", res.Emitted,
		"errors", len(res.Errors),
	)
	return res, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
