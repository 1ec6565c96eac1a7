package turnip

import (
	"time"

	"golang.org/x/exp/slices"
)

// Sequence returns a script that runs scripts one after another
// in the calling task, stopping at the first error.
//
// Plain sequential code in a script already is a sequence. This is
// for sequences assembled at runtime, e.g. from data.
func Sequence(scripts ...Script) Script {
	return func(ctrl *Control) error {
		for _, script := range scripts {
			if err := script(ctrl); err != nil {
				return err
			}
		}
		return nil
	}
}

// Repeat returns a script that runs body as long as cond returns
// true, checking cond before every iteration. The body runs inline
// in the same task, so looping does not spawn anything; anything
// declared inside body starts fresh on every iteration.
//
//	Note: a body that never waits while cond stays true loops
//	forever inside a single Tick.
func Repeat(cond func() bool, body Script) Script {
	return func(ctrl *Control) error {
		for cond() {
			if err := body(ctrl); err != nil {
				return err
			}
		}
		return nil
	}
}

// All returns a script that runs scripts concurrently and waits
// for all of them, failing fast if one of them faults.
func All(scripts ...Script) Script {
	return func(ctrl *Control) error {
		return ctrl.All(scripts...)
	}
}

// AllSettled returns a script that runs scripts concurrently and
// waits for all of them, ignoring faults.
func AllSettled(scripts ...Script) Script {
	return func(ctrl *Control) error {
		ctrl.AllSettled(scripts...)
		return nil
	}
}

// Any returns a script that runs scripts concurrently until the
// first of them ends, cancelling the rest.
func Any(scripts ...Script) Script {
	return func(ctrl *Control) error {
		_, err := ctrl.Any(scripts...)
		return err
	}
}

// CancelOn returns a script that runs body until it ends, or
// until cond returns true, whichever comes first.
func CancelOn(cond func() bool, body Script) Script {
	return func(ctrl *Control) error {
		_, err := ctrl.CancelOn(cond, body)
		return err
	}
}

// Timeout returns a script that runs body for at most d.
// Running out of time is not an error.
func Timeout(d time.Duration, body Script) Script {
	return func(ctrl *Control) error {
		_, err := ctrl.Timeout(d, body)
		return err
	}
}

// All spawns every script as a child task and waits for all of
// them. See Await.
func (ctrl *Control) All(scripts ...Script) error {
	return ctrl.Await(ctrl.spawnAll(scripts)...)
}

// AllSettled spawns every script as a child task, waits for all of
// them to end whatever the outcome, and returns the tasks.
func (ctrl *Control) AllSettled(scripts ...Script) []*Task {
	tasks := ctrl.spawnAll(scripts)
	ctrl.AwaitSettled(tasks...)
	return tasks
}

// Any spawns every script as a child task and waits for the first
// one to complete, see AwaitAny. It returns the index of that script.
func (ctrl *Control) Any(scripts ...Script) (int, error) {
	tasks := ctrl.spawnAll(scripts)
	winner, err := ctrl.AwaitAny(tasks...)
	return slices.Index(tasks, winner), err
}

// Interrupt runs body and interrupter concurrently as child tasks.
// Whichever ends first cancels the other. interrupted is true when
// the interrupter ended first.
// A fault of either one is returned as a *ChildFaultError.
//
// The interrupter runs before the body within each frame, so the
// body never gets another step in the frame the interrupter ends.
func (ctrl *Control) Interrupt(body, interrupter Script) (interrupted bool, err error) {
	stopper := ctrl.Spawn(interrupter)
	worker := ctrl.Spawn(body)

	first := ctrl.awaitFirst(stopper, worker)
	if first.State() == Faulted {
		err = &ChildFaultError{Task: first, Err: first.Err()}
	}
	return first == stopper, err
}

// CancelOn runs body until it ends, or until cond returns true.
// If cond is already true, body never starts.
func (ctrl *Control) CancelOn(cond func() bool, body Script) (interrupted bool, err error) {
	ctrl.enter()
	if cond() {
		return true, nil
	}
	return ctrl.Interrupt(body, func(ctrl *Control) error {
		ctrl.WaitUntil(cond)
		return nil
	})
}

// Timeout runs body for at most d, measured like Wait(d).
func (ctrl *Control) Timeout(d time.Duration, body Script) (timedOut bool, err error) {
	return ctrl.Interrupt(body, func(ctrl *Control) error {
		ctrl.Wait(d)
		return nil
	})
}

func (ctrl *Control) spawnAll(scripts []Script) []*Task {
	tasks := make([]*Task, len(scripts))
	for i, script := range scripts {
		tasks[i] = ctrl.Spawn(script)
	}
	return tasks
}
