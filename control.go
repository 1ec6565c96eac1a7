package turnip

import (
	"time"

	"golang.org/x/exp/slices"
)

// A Control is used to direct the program flow of a script.
// Every task gets its own Control.
//
//	Note: Methods that wait may block for one or more frames.
//	They must only be called from the script of the task that
//	owns the Control, otherwise they panic with ErrForeignControl.
//
//	Note: waiting methods panic with ErrCancelled when the task
//	has been cancelled. The panic is recovered by the task
//	itself, no need to handle it inside a script.
type Control struct {
	task *Task
}

// Yield waits until the next call to Tick().
// In other words, Yield() waits for one frame.
func (ctrl *Control) Yield() {
	ctrl.suspend(suspension{kind: WaitNextFrame})
}

// WaitFrames waits for a number of calls to Tick().
func (ctrl *Control) WaitFrames(count int) {
	for i := 0; i < count; i++ {
		ctrl.Yield()
	}
}

// Wait waits until the dt of later ticks adds up to d.
// The dt of the current tick does not count.
// A non-positive d returns immediately.
func (ctrl *Control) Wait(d time.Duration) {
	if d <= 0 {
		ctrl.enter()
		return
	}
	ctrl.suspend(suspension{kind: WaitDelay, remaining: d})
}

// Waits until cond returns true. cond is checked right away,
// then once per tick.
func (ctrl *Control) WaitUntil(cond func() bool) {
	ctrl.enter()
	if cond() {
		return
	}
	ctrl.suspend(suspension{kind: WaitCondition, cond: cond})
}

// Waits while cond returns true.
// Similar to WaitUntil(), but with the condition negated.
func (ctrl *Control) WaitWhile(cond func() bool) {
	ctrl.WaitUntil(func() bool { return !cond() })
}

// Causes the task to block indefinitely and
// spiral downwards the endless depths of nothingness, never
// again to return from the utter blackness of empty void.
// Only cancellation gets it out.
func (ctrl *Control) Abyss() {
	ctrl.suspend(suspension{kind: WaitCondition, cond: never})
}

func never() bool { return false }

// Spawn starts a child task. The child runs from the next
// Tick on, after every task that was spawned before it.
// It is cancelled when the current task ends or is cancelled.
//
// To start a task that outlives the current one, use
// ctrl.Scheduler().Spawn() instead.
func (ctrl *Control) Spawn(script Script) *Task {
	task := ctrl.enter()
	return task.sched.spawn(script, task)
}

// Await waits until all tasks have ended.
// If one of them faults, the others are cancelled and a
// *ChildFaultError is returned as soon as the fault happens.
// Cancelled tasks count as ended.
func (ctrl *Control) Await(tasks ...*Task) error {
	ctrl.awaitTasks(awaitAll, tasks)
	if faulted := firstEnded(tasks, Faulted); faulted != nil {
		return &ChildFaultError{Task: faulted, Err: faulted.Err()}
	}
	return nil
}

// AwaitSettled waits until all tasks have ended, whatever
// the outcome. Inspect the tasks to see how each one ended.
func (ctrl *Control) AwaitSettled(tasks ...*Task) {
	ctrl.awaitTasks(awaitAllSettled, tasks)
}

// AwaitAny waits until one of the tasks completes or is cancelled,
// then cancels the rest and returns the one that ended first.
// Faulted tasks are skipped, unless all of them fault, in which case
// the last fault is returned as a *ChildFaultError.
func (ctrl *Control) AwaitAny(tasks ...*Task) (*Task, error) {
	if len(tasks) == 0 {
		ctrl.enter()
		return nil, nil
	}
	ctrl.awaitTasks(awaitAny, tasks)
	if winner := firstEnded(tasks, Completed, Cancelled); winner != nil {
		return winner, nil
	}
	faulted := lastEnded(tasks, Faulted)
	return faulted, &ChildFaultError{Task: faulted, Err: faulted.Err()}
}

// awaitFirst waits until one of the tasks ends in any way,
// then cancels the rest and returns it.
func (ctrl *Control) awaitFirst(tasks ...*Task) *Task {
	ctrl.awaitTasks(awaitFirst, tasks)
	return firstEnded(tasks, Completed, Cancelled, Faulted)
}

func (ctrl *Control) awaitTasks(mode awaitMode, tasks []*Task) {
	task := ctrl.enter()
	if len(tasks) == 0 {
		return
	}

	w := suspension{kind: WaitTasks, tasks: slices.Clone(tasks), mode: mode}
	if w.ready() {
		w.settle()
		return
	}

	for _, awaited := range tasks {
		awaited.waiters.Add(task)
	}
	defer func() {
		for _, awaited := range tasks {
			awaited.waiters.Remove(task)
		}
	}()
	ctrl.suspend(w)
}

// Cancels the task. Also cancels all child tasks created with
// Spawn. This does not affect parent tasks.
//
//	Note: the script keeps running until its next waiting call,
//	which will then panic with ErrCancelled.
func (ctrl *Control) Cancel() {
	ctrl.task.Cancel()
}

// Returns true if the task has been cancelled.
func (ctrl *Control) IsCancelled() bool {
	return ctrl.task.State() == Cancelled
}

// SetResult sets the value returned by Task.Result()
// once the script completes.
func (ctrl *Control) SetResult(value any) {
	ctrl.task.result = value
}

// DeltaTime returns the dt of the tick that resumed the task.
func (ctrl *Control) DeltaTime() time.Duration {
	return ctrl.task.dt
}

// Frame returns the number of the current tick.
func (ctrl *Control) Frame() uint64 {
	return ctrl.task.sched.frame
}

func (ctrl *Control) Task() *Task {
	return ctrl.task
}

func (ctrl *Control) Scheduler() *Scheduler {
	return ctrl.task.sched
}

func (ctrl *Control) enter() *Task {
	task := ctrl.task
	if task.sched.current != task {
		panic(ErrForeignControl)
	}
	if task.IsTerminal() {
		panic(ErrCancelled)
	}
	return task
}

func (ctrl *Control) suspend(w suspension) {
	task := ctrl.enter()
	task.wait = w
	task.setState(Suspended)
	if task.kanata.YieldRight() == resumeUnwind {
		panic(ErrCancelled)
	}
}
