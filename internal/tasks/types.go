package tasks

import (
	"context"
	"time"

	"github.com/darmiel/sitegate/internal/logging"
)

// TaskFunc is the body of a background task, e.g. the ruleset re-sync or
// the expired-pass cleanup.
type TaskFunc func(ctx context.Context, log logging.InternalLogger) error

type TaskStatus struct {
	Name       string    `json:"name"`
	Running    bool      `json:"running"`
	LastRun    time.Time `json:"last_run"`
	NextRun    time.Time `json:"next_run"`
	LastResult string    `json:"last_result"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}
