package turnip

import (
	"context"
	"fmt"
	"log/slog"
)

var discardLogger = slog.New(slog.DiscardHandler)

func (s *Scheduler) logTask(level slog.Level, task *Task, msg string, args ...any) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, level) {
		return
	}
	attrs := append([]any{"task", task.String(), "frame", s.frame}, args...)
	s.logger.Log(ctx, level, msg, attrs...)
}

// Use for debugging. Messages are written at debug level
// to the scheduler's logger, see WithLogger.
func (ctrl *Control) Logf(format string, args ...any) {
	ctrl.task.sched.logTask(slog.LevelDebug, ctrl.task, fmt.Sprintf(format, args...))
}
