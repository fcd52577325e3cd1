package tasks

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/darmiel/sitegate/internal/logging"
)

// taskLogger forwards to zerolog and captures the messages on the task, so
// the admin API can show the logs of the last run.
type taskLogger struct {
	task *RunnableTask
	zlog zerolog.Logger
}

var _ logging.InternalLogger = (*taskLogger)(nil)

func newTaskLogger(task *RunnableTask, zlog zerolog.Logger) *taskLogger {
	return &taskLogger{task: task, zlog: zlog}
}

func (l *taskLogger) capture(level, format string, args ...any) {
	l.task.mu.Lock()
	defer l.task.mu.Unlock()

	if len(l.task.Logs) >= MaxLogsPerTask {
		return
	}
	l.task.Logs = append(l.task.Logs, LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *taskLogger) Debug(format string, args ...any) {
	l.zlog.Debug().Msgf(format, args...)
	l.capture("debug", format, args...)
}

func (l *taskLogger) Info(format string, args ...any) {
	l.zlog.Info().Msgf(format, args...)
	l.capture("info", format, args...)
}

func (l *taskLogger) Warn(format string, args ...any) {
	l.zlog.Warn().Msgf(format, args...)
	l.capture("warn", format, args...)
}

func (l *taskLogger) Error(format string, args ...any) {
	l.zlog.Error().Msgf(format, args...)
	l.capture("error", format, args...)
}
