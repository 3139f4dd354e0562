// Package jobs runs background work on a gocron scheduler. Jobs read
// snapshots; they never mutate state.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/domain"
	"github.com/gosuda/unistay/internal/events"
	"github.com/gosuda/unistay/internal/views"
)

const dashboardRefreshJob = "dashboard-refresh"

// SnapshotSource provides the committed state.
type SnapshotSource interface {
	Snapshot() *domain.State
}

// EventPublisher receives the refreshed dashboard.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// Scheduler owns the gocron scheduler and its jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	source    SnapshotSource
	publisher EventPublisher
	now       func() time.Time
}

// NewScheduler creates a scheduler with the dashboard refresh job registered
// at the given interval. A zero interval registers nothing.
func NewScheduler(ctx context.Context, source SnapshotSource, publisher EventPublisher, interval time.Duration) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("jobs.NewScheduler: %w", err)
	}

	s := &Scheduler{
		scheduler: scheduler,
		source:    source,
		publisher: publisher,
		now:       time.Now,
	}

	if interval > 0 {
		if _, err := scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(s.RefreshDashboard, ctx),
			gocron.WithName(dashboardRefreshJob),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			_ = scheduler.Shutdown()
			return nil, fmt.Errorf("jobs.NewScheduler: register %s: %w", dashboardRefreshJob, err)
		}
	}

	log.Info().Int("jobs", len(scheduler.Jobs())).Dur("interval", interval).Msg("background jobs registered")
	return s, nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("jobs.Scheduler.Stop: %w", err)
	}
	return nil
}

// RefreshDashboard recomputes the dashboard from the current snapshot and
// publishes it.
func (s *Scheduler) RefreshDashboard(ctx context.Context) error {
	snap := s.source.Snapshot()
	now := s.now()
	d := views.BuildDashboard(snap, now)

	err := s.publisher.Publish(ctx, events.Event{
		Type:    events.TypeDashboardRefreshed,
		Version: snap.Version,
		At:      now.UTC(),
		Data:    d,
	})
	if err != nil {
		log.Warn().Err(err).Msg("publish dashboard refresh")
		return fmt.Errorf("jobs.Scheduler.RefreshDashboard: %w", err)
	}

	log.Debug().Uint64("version", snap.Version).Int("overdue", d.OverdueCount).Msg("dashboard refreshed")
	return nil
}
