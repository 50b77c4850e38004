package server

import (
	"fmt"

	"gorm.io/gorm"

	"flesk/internal/config"
	"flesk/internal/jobs"
	"flesk/internal/logger"
	"flesk/internal/notify"
	"flesk/internal/scheduler"
	"flesk/internal/spending"
)

// NewScheduler builds a scheduler with every batch job registered on the
// configured cron specs. It does not start it.
func NewScheduler(cfg *config.Config, db *gorm.DB, emitter *notify.Emitter, opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	opts = append([]scheduler.Option{scheduler.WithLocation(cfg.SchedulerTimezone)}, opts...)
	s := scheduler.New(opts...)
	agg := spending.NewAggregator(db)

	registrations := []struct {
		name string
		spec string
		job  jobs.Job
	}{
		{jobs.NameBudgetEvaluation, cfg.BudgetJobSpec, jobs.NewBudgetEvaluationJob(db, agg, emitter, cfg.SchedulerWorkers)},
		{jobs.NameGoalCheck, cfg.GoalJobSpec, jobs.NewGoalCheckJob(db, emitter)},
		{jobs.NameSubscriptionReminders, cfg.SubscriptionJobSpec, jobs.NewSubscriptionReminderJob(db, emitter, cfg.ReminderWindow)},
		{jobs.NameNotificationCleanup, cfg.CleanupJobSpec, jobs.NewNotificationCleanupJob(db)},
	}
	for _, r := range registrations {
		if err := s.Register(r.name, r.spec, r.job); err != nil {
			return nil, fmt.Errorf("register %s: %w", r.name, err)
		}
	}
	return s, nil
}

// NewPublishers builds the delivery publishers enabled in cfg. The returned
// cleanup closes any open broker connections.
func NewPublishers(cfg *config.Config, db *gorm.DB) ([]notify.Publisher, func(), error) {
	var (
		publishers []notify.Publisher
		closers    []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Get().Warnw("publisher close error", "error", err)
			}
		}
	}

	if cfg.AMQPURL != "" {
		p, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect to AMQP broker: %w", err)
		}
		publishers = append(publishers, p)
		closers = append(closers, p.Close)
		logger.Get().Infow("AMQP publisher enabled", "exchange", cfg.AMQPExchange)
	}

	if cfg.SMTPHost != "" {
		publishers = append(publishers, notify.NewMailPublisher(db, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom))
		logger.Get().Infow("mail publisher enabled", "host", cfg.SMTPHost)
	}

	return publishers, cleanup, nil
}
