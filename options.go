package turnip

import "log/slog"

// An Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for task lifecycle events
// and Control.Logf. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFaultHandler registers fn to be called whenever a task faults.
// fn runs synchronously, in the strand that observed the fault,
// and must not call suspension methods.
// Cancelled tasks are not reported.
func WithFaultHandler(fn func(task *Task, err error)) Option {
	return func(s *Scheduler) {
		s.onFault = fn
	}
}

// WithPrealloc pre-allocates the handoff state of count tasks.
func WithPrealloc(count int) Option {
	return func(s *Scheduler) {
		s.prealloc = count
	}
}
