package turnip

import (
	"time"

	"golang.org/x/exp/slices"
)

// WaitKind tells what a suspended task is waiting for.
type WaitKind uint8

const (
	WaitNone WaitKind = iota
	// Resumes on the next Tick.
	WaitNextFrame
	// Resumes once the accumulated dt covers the delay.
	WaitDelay
	// Resumes once a predicate returns true.
	WaitCondition
	// Resumes once awaited tasks finish, see the Await methods.
	WaitTasks
)

var waitKindNames = [...]string{
	WaitNone:      "none",
	WaitNextFrame: "next-frame",
	WaitDelay:     "delay",
	WaitCondition: "condition",
	WaitTasks:     "tasks",
}

func (k WaitKind) String() string {
	if int(k) < len(waitKindNames) {
		return waitKindNames[k]
	}
	return "unknown"
}

type awaitMode uint8

const (
	// every task terminal, fails fast on the first fault
	awaitAll awaitMode = iota
	// every task terminal, faults tolerated
	awaitAllSettled
	// one task completed or cancelled, or every task terminal
	awaitAny
	// one task terminal, whatever the outcome
	awaitFirst
)

// suspension is the point a task is parked on.
type suspension struct {
	kind      WaitKind
	remaining time.Duration
	cond      func() bool
	tasks     []*Task
	mode      awaitMode

	// set once a task wait is satisfied, it stays resumable from then on
	settled bool
}

// poll advances the suspension by dt and reports whether the
// task may resume. It is called at most once per task per Tick.
//
// Overshoot of a delay is dropped rather than carried
// over to the next suspension point.
func (w *suspension) poll(dt time.Duration) bool {
	switch w.kind {
	case WaitNextFrame:
		return true
	case WaitDelay:
		w.remaining -= dt
		return w.remaining <= 0
	case WaitCondition:
		return w.cond()
	case WaitTasks:
		if !w.settled && w.ready() {
			w.settle()
		}
		return w.settled
	}
	return false
}

func (w *suspension) ready() bool {
	switch w.mode {
	case awaitAll:
		done := true
		for _, t := range w.tasks {
			switch t.State() {
			case Faulted:
				return true
			case Completed, Cancelled:
			default:
				done = false
			}
		}
		return done
	case awaitAllSettled:
		for _, t := range w.tasks {
			if !t.IsTerminal() {
				return false
			}
		}
		return true
	case awaitAny:
		done := true
		for _, t := range w.tasks {
			switch t.State() {
			case Completed, Cancelled:
				return true
			case Faulted:
			default:
				done = false
			}
		}
		return done
	case awaitFirst:
		for _, t := range w.tasks {
			if t.IsTerminal() {
				return true
			}
		}
	}
	return false
}

// settle cancels the awaited tasks that no longer matter
// once the wait is satisfied.
func (w *suspension) settle() {
	if w.settled {
		return
	}
	w.settled = true

	switch w.mode {
	case awaitAll:
		if firstEnded(w.tasks, Faulted) == nil {
			return
		}
	case awaitAllSettled:
		return
	}

	for _, t := range w.tasks {
		t.Cancel()
	}
}

// firstEnded returns the task that reached one of the given
// terminal states earliest, or nil.
func firstEnded(tasks []*Task, states ...State) *Task {
	var found *Task
	for _, t := range tasks {
		if !hasState(t, states) {
			continue
		}
		if found == nil || t.endSeq < found.endSeq {
			found = t
		}
	}
	return found
}

// lastEnded is like firstEnded, but picks the latest one.
func lastEnded(tasks []*Task, states ...State) *Task {
	var found *Task
	for _, t := range tasks {
		if !hasState(t, states) {
			continue
		}
		if found == nil || t.endSeq > found.endSeq {
			found = t
		}
	}
	return found
}

func hasState(t *Task, states []State) bool {
	return slices.Contains(states, t.State())
}
