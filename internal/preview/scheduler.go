package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// scheduler triggers full rebuilds on a fixed interval next to the watcher.
type scheduler struct {
	gocron gocron.Scheduler
}

// newScheduler schedules rebuild every interval. Overlapping runs are
// rescheduled rather than queued.
func newScheduler(interval time.Duration, rebuild func()) (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(rebuild),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	return &scheduler{gocron: s}, nil
}

func (s *scheduler) start() { s.gocron.Start() }

func (s *scheduler) stop() error { return s.gocron.Shutdown() }

// startScheduler is a no-op returning nil when no interval is configured.
func (s *Server) startScheduler(ctx context.Context) (*scheduler, error) {
	interval := s.cfg.Serve.RebuildInterval
	if interval <= 0 {
		return nil, nil
	}
	sched, err := newScheduler(interval, func() {
		s.logger.Debug("Scheduled rebuild")
		_ = s.Rebuild(ctx)
	})
	if err != nil {
		return nil, err
	}
	sched.start()
	s.logger.Info("Periodic rebuild enabled", logfields.DurationMS(float64(interval.Milliseconds())))
	return sched, nil
}
