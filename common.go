package turnip

import (
	"errors"
	"fmt"
)

// The error that is thrown while waiting on
// methods like Yield(), Wait() and Await().
// This is used to prevent a task from continuing
// when cancelled.
// No need to explicitly handle and recover from
// this error inside a script.
//
// A script may also return ErrCancelled to end itself
// as Cancelled instead of Faulted.
var ErrCancelled = errors.New("task has been cancelled")

var (
	ErrNilScript       = errors.New("script is nil")
	ErrSchedulerClosed = errors.New("scheduler is closed")
	ErrTaskTerminated  = errors.New("task has already terminated")
	ErrReentrantTick   = errors.New("Tick called from inside a running task")
	ErrForeignControl  = errors.New("control used outside of its own task")
)

// A PanicError is the fault reason of a task whose script panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("script panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// A ChildFaultError is returned by waits that fail because
// an awaited task faulted.
type ChildFaultError struct {
	Task *Task
	Err  error
}

func (e *ChildFaultError) Error() string {
	return fmt.Sprintf("%v faulted: %v", e.Task, e.Err)
}

func (e *ChildFaultError) Unwrap() error { return e.Err }

// A type representing none.
type void struct{}

// That value that represents nothing.
// Similar to nil, but safer.
var none = void{}

func isCancellation(err error) bool {
	return errors.Is(err, ErrCancelled)
}
