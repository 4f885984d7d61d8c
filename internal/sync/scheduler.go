package sync

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a pass at startup and then on every tick. A non-empty Cron
// expression takes precedence over Interval.
type Scheduler struct {
	Runner   Runner
	Interval time.Duration
	Cron     string
}

func (s *Scheduler) Run(ctx context.Context) {
	spec := strings.TrimSpace(s.Cron)
	if s.Runner == nil || (s.Interval <= 0 && spec == "") {
		return
	}

	// Run immediately at startup.
	s.runOnce(ctx, "initial catalog sync failed")

	if spec != "" {
		s.runCron(ctx, spec)
		return
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, "scheduled catalog sync failed")
		}
	}
}

func (s *Scheduler) runCron(ctx context.Context, spec string) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		s.runOnce(ctx, "scheduled catalog sync failed")
	})
	if err != nil {
		slog.Error("invalid catalog sync schedule", "cron", spec, "err", err)
		return
	}
	c.Start()
	slog.Info("catalog sync scheduled", "cron", spec, "next", c.Entry(id).Next)

	<-ctx.Done()
	<-c.Stop().Done()
}

func (s *Scheduler) runOnce(ctx context.Context, msg string) {
	err := s.Runner.RunOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncAlreadyRunning):
		slog.Info("catalog sync skipped, another pass is running")
	case errors.Is(err, context.Canceled):
	default:
		slog.Error(msg, "err", err)
	}
}
