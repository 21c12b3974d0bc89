package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// scheduler wraps a gocron scheduler running periodic rebuilds.
type scheduler struct {
	s gocron.Scheduler
}

func newScheduler(every time.Duration, request func(reason string)) (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(request, "schedule"),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return &scheduler{s: s}, nil
}

func (s *scheduler) start() {
	slog.Info("Starting rebuild scheduler")
	s.s.Start()
}

func (s *scheduler) stop() error {
	slog.Info("Stopping rebuild scheduler")
	return s.s.Shutdown()
}
