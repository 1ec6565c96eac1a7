package turnip

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	bits "github.com/nvlled/turnip/atombits"
	"golang.org/x/exp/slices"
)

// A Script is the body of a task. It runs as ordinary sequential
// code and pauses only inside the suspension methods of ctrl.
//
// Returning nil completes the task. Returning an error, or panicking,
// faults it. Returning ErrCancelled cancels it.
type Script = func(ctrl *Control) error

const (
	flagLaunched uint32 = 1 << iota // goroutine started
	flagActive                      // goroutine currently holds control
	flagExited                      // goroutine returned
)

var idGen = atomic.Int64{}

// A Task is the handle of one script running on a Scheduler.
//
// Handles stay valid after the task terminates and is reaped,
// so Result() and Err() can be read at any later time.
type Task struct {
	id     int64
	sched  *Scheduler
	script Script
	ctrl   *Control

	state atomic.Uint32
	flags bits.T

	// parent is bookkeeping only, the registry owns every task.
	parent   *Task
	children *sliceSet[*Task]
	// tasks currently suspended on a wait that includes this task
	waiters *sliceSet[*Task]

	wait   suspension
	kanata *katana

	result any
	err    error

	dt        time.Duration
	lastFrame uint64
	endSeq    uint64
}

func newTask(sched *Scheduler, script Script, parent *Task) *Task {
	task := &Task{
		id:       idGen.Add(1),
		sched:    sched,
		script:   script,
		parent:   parent,
		children: newSliceSet[*Task](),
		waiters:  newSliceSet[*Task](),
	}
	task.ctrl = &Control{task: task}
	return task
}

func (t *Task) ID() int64 { return t.id }

func (t *Task) State() State { return State(t.state.Load()) }

func (t *Task) IsTerminal() bool { return t.State().IsTerminal() }

// Suspension returns what the task is waiting for,
// or WaitNone if it is not suspended.
func (t *Task) Suspension() WaitKind {
	if t.State() != Suspended {
		return WaitNone
	}
	return t.wait.kind
}

// Parent returns the task that spawned t, nil for root tasks.
func (t *Task) Parent() *Task { return t.parent }

// Children returns the live tasks spawned by t.
func (t *Task) Children() []*Task { return t.children.Items() }

// Result returns the value set with Control.SetResult,
// or nil if the task has not completed.
func (t *Task) Result() any {
	if t.State() != Completed {
		return nil
	}
	return t.result
}

// Err returns the fault reason of a Faulted task, nil otherwise.
func (t *Task) Err() error { return t.err }

// Cancels the task, then all of its live children, depth first.
// The state changes immediately. A task parked on a suspension
// point unwinds right away: deferred calls in its script run,
// but nothing after the suspension point does.
// A task that cancels itself keeps running until
// it reaches its next suspension point.
func (t *Task) Cancel() {
	t.abort(Cancelled, nil)
}

func (t *Task) String() string {
	return fmt.Sprintf("task-%v", t.id)
}

// ResultAs returns the result of a completed task as a T.
func ResultAs[T any](t *Task) (T, bool) {
	value, ok := t.Result().(T)
	return value, ok
}

func (t *Task) setState(state State) {
	t.state.Store(uint32(state))
}

func (t *Task) resume(dt time.Duration) error {
	state := t.State()
	if state.IsTerminal() {
		return fmt.Errorf("resume %v: %w", t, ErrTaskTerminated)
	}
	if state == Running {
		return fmt.Errorf("resume %v: already running", t)
	}

	t.dt = dt
	t.lastFrame = t.sched.frame
	t.wait = suspension{}
	t.setState(Running)

	if !bits.Swap(&t.flags, flagLaunched) {
		t.kanata = t.sched.pool.alloc()
		go t.run()
	}
	t.handoff(resumeRun)
	return nil
}

// handoff passes control to the task goroutine and
// returns once the goroutine parks again or exits.
func (t *Task) handoff(sig resumeSignal) {
	sched := t.sched
	prev := sched.current
	sched.current = t
	bits.Set(&t.flags, flagActive)

	t.kanata.YieldLeft(sig)

	bits.Unset(&t.flags, flagActive)
	sched.current = prev
	if bits.IsSet(&t.flags, flagExited) && t.kanata != nil {
		sched.pool.free(t.kanata)
		t.kanata = nil
	}
}

func (t *Task) run() {
	defer func() {
		bits.Set(&t.flags, flagExited)
		t.kanata.Exit()
	}()
	t.kanata.Enter()
	t.finish(t.invoke())
}

func (t *Task) invoke() (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if r == ErrCancelled {
			err = ErrCancelled
			return
		}
		err = &PanicError{Value: r, Stack: debug.Stack()}
	}()
	return t.script(t.ctrl)
}

func (t *Task) finish(err error) {
	if t.IsTerminal() {
		return
	}
	switch {
	case err == nil:
		t.terminate(Completed, nil)
	case isCancellation(err):
		t.terminate(Cancelled, nil)
	default:
		t.terminate(Faulted, err)
	}
}

// abort ends a task from the outside and unwinds its goroutine.
func (t *Task) abort(state State, err error) {
	if t.IsTerminal() {
		return
	}
	t.terminate(state, err)
	t.unwind()
}

func (t *Task) unwind() {
	if !bits.IsSet(&t.flags, flagLaunched) ||
		bits.IsSet(&t.flags, flagExited) ||
		bits.IsSet(&t.flags, flagActive) {
		// never started, already gone, or somewhere up the
		// current call chain: it stops at its next suspension point
		return
	}
	t.handoff(resumeUnwind)
}

func (t *Task) terminate(state State, err error) {
	sched := t.sched

	t.err = err
	t.wait = suspension{}
	t.setState(state)
	sched.endSeq++
	t.endSeq = sched.endSeq

	if t.parent != nil {
		t.parent.children.Remove(t)
	}
	for _, child := range t.children.Items() {
		child.Cancel()
	}
	t.children.Clear()

	for _, waiter := range t.waiters.Items() {
		waiter.notify(t)
	}
	t.waiters.Clear()

	switch state {
	case Faulted:
		sched.logTask(slog.LevelWarn, t, "task faulted", "error", err)
		if sched.onFault != nil {
			sched.onFault(t, err)
		}
	case Cancelled:
		sched.logTask(slog.LevelDebug, t, "task cancelled")
	default:
		sched.logTask(slog.LevelDebug, t, "task completed")
	}
}

// notify is called when a task that t waits on has ended.
func (t *Task) notify(ended *Task) {
	w := &t.wait
	if t.State() != Suspended || w.kind != WaitTasks || !slices.Contains(w.tasks, ended) {
		return
	}
	w.poll(0)
}

// poll checks the suspension point of a suspended task.
// A predicate that panics faults the task.
func (t *Task) poll(dt time.Duration) (ready bool) {
	defer func() {
		if r := recover(); r != nil {
			ready = false
			t.abort(Faulted, &PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	return t.wait.poll(dt)
}
