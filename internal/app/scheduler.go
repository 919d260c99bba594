package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/heartmarshall/feedtags-backend/internal/config"
)

// jobTimeout bounds a single maintenance run.
const jobTimeout = 30 * time.Minute

// Job is a named periodic task.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs maintenance jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	log  *slog.Logger
}

// NewScheduler creates a scheduler in loc. Jobs see ctx, so cancelling it
// aborts running jobs.
func NewScheduler(ctx context.Context, loc *time.Location, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:  ctx,
		log:  logger.With("component", "scheduler"),
	}
}

// Add registers jobs. A job with an empty schedule is skipped.
func (s *Scheduler) Add(jobs ...Job) error {
	for _, job := range jobs {
		if job.Schedule == "" {
			s.log.Info("job disabled", slog.String("job", job.Name))
			continue
		}
		if _, err := s.cron.AddFunc(job.Schedule, s.wrap(job)); err != nil {
			return fmt.Errorf("schedule %s: %w", job.Name, err)
		}
		s.log.Info("job scheduled",
			slog.String("job", job.Name),
			slog.String("schedule", job.Schedule),
		)
	}
	return nil
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.log.Error("job failed",
				slog.String("job", job.Name),
				slog.String("error", err.Error()),
			)
			return
		}
		s.log.Info("job finished",
			slog.String("job", job.Name),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// MaintenanceJobs returns the periodic jobs for svc.
func MaintenanceJobs(cfg *config.Config, svc *Services) []Job {
	return []Job{
		{
			Name:     "resync_letters",
			Schedule: cfg.Letters.ResyncSchedule,
			Run: func(ctx context.Context) error {
				_, err := svc.Sync.ResyncAll(ctx)
				return err
			},
		},
		{
			Name:     "decay_temperature",
			Schedule: cfg.Letters.DecaySchedule,
			Run: func(ctx context.Context) error {
				return svc.Sync.DecayTemperature(ctx, cfg.Letters.DecayFactor)
			},
		},
		{
			Name:     "process_pending",
			Schedule: cfg.Ingest.Schedule,
			Run: func(ctx context.Context) error {
				_, err := svc.Ingest.ProcessPending(ctx)
				return err
			},
		},
	}
}
