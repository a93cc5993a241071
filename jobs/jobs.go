package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"HospitalCare/config"
	"HospitalCare/services"
)

const (
	ReminderJob = "appointment-reminders"
	NoShowJob   = "no-show-sweep"
	OverdueJob  = "overdue-invoices"
	LimiterJob  = "rate-limit-sweep"
)

type Reminders interface {
	SendReminders(ctx context.Context, date string) (int, error)
	ExpireNoShows(ctx context.Context) (int64, error)
}

type Overdue interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

type Sweeper interface {
	Sweep() int
}

// Recorder counts job runs by outcome.
type Recorder interface {
	JobRan(job string, err error)
}

type Scheduler struct {
	cron         *cron.Cron
	appointments Reminders
	invoices     Overdue
	limiter      Sweeper
	metrics      Recorder
	timeout      time.Duration
	log          *zap.Logger
	now          func() time.Time
}

func NewScheduler(appointments Reminders, invoices Overdue, limiter Sweeper, metrics Recorder, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		appointments: appointments,
		invoices:     invoices,
		limiter:      limiter,
		metrics:      metrics,
		timeout:      5 * time.Minute,
		log:          log.Named("jobs"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

/*
* Register the reminder, no-show and overdue jobs on their schedules
* Register the limiter sweep every ten minutes
* A bad cron expression fails startup
 */
func (s *Scheduler) Register(cfg config.JobsConfig) error {
	entries := []struct {
		spec string
		name string
		run  func(ctx context.Context) error
	}{
		{cfg.ReminderSchedule, ReminderJob, s.RunReminders},
		{cfg.NoShowSchedule, NoShowJob, s.RunNoShows},
		{cfg.OverdueSchedule, OverdueJob, s.RunOverdue},
		{"@every 10m", LimiterJob, s.RunLimiterSweep},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, func() { s.run(e.name, e.run) }); err != nil {
			return err
		}
		s.log.Info("job scheduled", zap.String("job", e.name), zap.String("schedule", e.spec))
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("jobs still running at shutdown")
	}
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	if s.metrics != nil {
		s.metrics.JobRan(name, err)
	}
	if err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Info("job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

// RunReminders queues reminders for tomorrow's appointments.
func (s *Scheduler) RunReminders(ctx context.Context) error {
	tomorrow := s.now().AddDate(0, 0, 1).Format(services.DateLayout)
	n, err := s.appointments.SendReminders(ctx, tomorrow)
	if err != nil {
		return err
	}
	s.log.Info("reminders queued", zap.String("date", tomorrow), zap.Int("count", n))
	return nil
}

func (s *Scheduler) RunNoShows(ctx context.Context) error {
	n, err := s.appointments.ExpireNoShows(ctx)
	if err != nil {
		return err
	}
	s.log.Info("appointments marked no-show", zap.Int64("count", n))
	return nil
}

func (s *Scheduler) RunOverdue(ctx context.Context) error {
	n, err := s.invoices.MarkOverdue(ctx)
	if err != nil {
		return err
	}
	s.log.Info("invoices marked overdue", zap.Int64("count", n))
	return nil
}

func (s *Scheduler) RunLimiterSweep(context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if n := s.limiter.Sweep(); n > 0 {
		s.log.Debug("idle rate-limit buckets dropped", zap.Int("count", n))
	}
	return nil
}
