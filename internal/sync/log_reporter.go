package sync

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/open-sspm/connector-catalog/internal/catalog"
)

// Event is a progress or outcome notification for a reconciliation pass.
type Event struct {
	Kind    catalog.Kind
	Stage   string
	Message string
	RunID   uuid.UUID
	Summary *catalog.Summary
	Err     error
	Done    bool
	At      time.Time
}

// Reporter receives pass events.
type Reporter interface {
	Report(Event)
}

// LogReporter is a simple reporter that logs events to the default slog logger.
type LogReporter struct {
	Logger *slog.Logger
}

func (r *LogReporter) Report(e Event) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]any, 0, 16)
	if e.Kind != "" {
		attrs = append(attrs, "kind", string(e.Kind))
	}
	if e.Stage != "" {
		attrs = append(attrs, "stage", e.Stage)
	}
	if e.RunID != uuid.Nil {
		attrs = append(attrs, "run_id", e.RunID.String())
	}
	if s := e.Summary; s != nil {
		attrs = append(attrs,
			"inserted", s.Inserted,
			"updated", s.Updated,
			"upgraded", s.Upgraded,
			"backfilled", s.Backfilled,
			"unchanged", s.Unchanged,
		)
	}

	message := e.Message
	if e.Err != nil {
		if message == "" {
			switch {
			case e.Kind != "" && e.Stage != "":
				message = string(e.Kind) + " " + e.Stage + " failed"
			case e.Kind != "":
				message = string(e.Kind) + " catalog sync failed"
			default:
				message = "catalog sync failed"
			}
		}
		attrs = append(attrs, "err", e.Err)
		logger.Error(message, attrs...)
		return
	}
	if message == "" {
		if !e.Done {
			return
		}
		message = "catalog sync complete"
	}
	logger.Info(message, attrs...)
}
