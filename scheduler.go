package turnip

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// A Scheduler owns a set of running scripts and drives
// them forward, one Tick() per frame.
//
// A Scheduler is not safe for concurrent use: Spawn, Tick and
// Cancel must be called from the thread that runs the game loop,
// or from the scripts themselves.
type Scheduler struct {
	id       string
	registry []*Task
	snapshot []*Task

	frame  uint64
	endSeq uint64

	// the task whose goroutine holds control, nil when the host does
	current *Task
	ticking bool
	closed  bool

	logger   *slog.Logger
	onFault  func(*Task, error)
	prealloc int
	pool     katanaPool
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		id:     uuid.New().String(),
		logger: discardLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("scheduler", s.id)
	s.pool = newKatanaPool(s.prealloc)
	return s
}

// Spawn creates a new task running script. The script will only
// start on the next call to Tick().
//
// Spawn panics with ErrNilScript if script is nil, and with
// ErrSchedulerClosed after Close().
func (s *Scheduler) Spawn(script Script) *Task {
	return s.spawn(script, nil)
}

func (s *Scheduler) spawn(script Script, parent *Task) *Task {
	if script == nil {
		panic(ErrNilScript)
	}
	if s.closed {
		panic(ErrSchedulerClosed)
	}

	task := newTask(s, script, parent)
	s.registry = append(s.registry, task)
	if parent != nil {
		parent.children.Add(task)
		s.logTask(slog.LevelDebug, task, "task spawned", "parent", parent.String())
	} else {
		s.logTask(slog.LevelDebug, task, "task spawned")
	}
	return task
}

// Tick advances every task by one frame, dt being the time
// elapsed since the previous Tick. Tick is normally called once
// per frame inside a game loop.
//
// Tasks run one at a time, in the order they were spawned.
// Tasks spawned during the Tick wait for the next one.
// A task waiting on other tasks resumes in the same Tick the
// last of them ends, even if it comes before them in order.
//
//	Note: Tick is blocking, and will not return until every
//	resumed script has reached its next waiting call or ended.
func (s *Scheduler) Tick(dt time.Duration) {
	if s.current != nil || s.ticking {
		panic(ErrReentrantTick)
	}
	if s.closed {
		return
	}
	if dt < 0 {
		s.logger.Warn("negative dt clamped to zero", "dt", dt, "frame", s.frame+1)
		dt = 0
	}

	s.ticking = true
	defer func() { s.ticking = false }()

	s.frame++
	s.snapshot = append(s.snapshot[:0], s.registry...)

	for _, task := range s.snapshot {
		switch task.State() {
		case Pending:
			s.drive(task, dt)
		case Suspended:
			if task.poll(dt) {
				s.drive(task, dt)
			}
		}
	}

	for woke := true; woke; {
		woke = false
		for _, task := range s.snapshot {
			if task.lastFrame == s.frame ||
				task.State() != Suspended ||
				task.wait.kind != WaitTasks {
				continue
			}
			if task.poll(0) {
				s.drive(task, dt)
				woke = true
			}
		}
	}

	clear(s.snapshot)
	s.snapshot = s.snapshot[:0]
	s.reap()
}

func (s *Scheduler) drive(task *Task, dt time.Duration) {
	if err := task.resume(dt); err != nil {
		s.logger.Error("resume failed", "task", task.String(), "error", err)
	}
}

// reap drops terminal tasks from the registry.
func (s *Scheduler) reap() {
	live := s.registry[:0]
	for _, task := range s.registry {
		if task.IsTerminal() {
			s.logTask(slog.LevelDebug, task, "task reaped", "state", task.State().String())
			continue
		}
		live = append(live, task)
	}
	clear(s.registry[len(live):])
	s.registry = live
}

// CancelAll cancels every task, in the order they were spawned.
// Like any other terminal task, they are reaped at the end of the next Tick.
func (s *Scheduler) CancelAll() {
	for _, task := range slices.Clone(s.registry) {
		task.Cancel()
	}
}

// Close cancels every task and releases their goroutines.
// Spawn panics and Tick does nothing afterwards.
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	s.CancelAll()
	s.closed = true
	if !s.ticking {
		s.reap()
	}
	s.logger.Debug("scheduler closed", "frame", s.frame)
}

// ID identifies the scheduler in its log records.
func (s *Scheduler) ID() string {
	return s.id
}

// Len returns the number of tasks that have not been reaped.
func (s *Scheduler) Len() int {
	return len(s.registry)
}

// Tasks returns the tasks that have not been reaped,
// in the order they were spawned.
func (s *Scheduler) Tasks() []*Task {
	return slices.Clone(s.registry)
}

// Frame returns the number of ticks so far.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// Idle reports whether every task has ended.
func (s *Scheduler) Idle() bool {
	for _, task := range s.registry {
		if !task.IsTerminal() {
			return false
		}
	}
	return true
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("scheduler(frame=%v, tasks=%v)", s.frame, len(s.registry))
}
