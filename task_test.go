package turnip

import (
	"errors"
	"testing"
	"time"
)

func TestResumeTerminal(t *testing.T) {
	s := New()
	defer s.Close()

	task := s.Spawn(func(ctrl *Control) error { return nil })
	s.Tick(time.Millisecond)

	if err := task.resume(time.Millisecond); !errors.Is(err, ErrTaskTerminated) {
		t.Error("resuming a terminal task should fail", err)
	}
}

func TestKatanaRecycled(t *testing.T) {
	s := New()
	defer s.Close()

	task := s.Spawn(func(ctrl *Control) error {
		ctrl.Yield()
		return nil
	})
	s.Tick(time.Millisecond)
	if task.kanata == nil {
		t.Fatal("started task should hold a katana")
	}
	s.Tick(time.Millisecond)
	if task.kanata != nil {
		t.Error("katana should be released once the goroutine exits")
	}
}

func TestWaitersCleanedUp(t *testing.T) {
	s := New()
	defer s.Close()

	long := s.Spawn(func(ctrl *Control) error {
		ctrl.Abyss()
		return nil
	})
	waiter := s.Spawn(func(ctrl *Control) error {
		return ctrl.Await(long)
	})

	s.Tick(time.Millisecond)
	if long.waiters.Len() != 1 {
		t.Fatal("waiter should be registered", long.waiters.Len())
	}

	waiter.Cancel()
	if long.waiters.Len() != 0 {
		t.Error("waiters should be removed once the wait unwinds", long.waiters.Len())
	}
	if long.IsTerminal() {
		t.Error("a cancelled waiter should not affect the awaited task")
	}
}

func TestSuspensionReady(t *testing.T) {
	s := New()
	defer s.Close()

	done := newTask(s, func(*Control) error { return nil }, nil)
	done.setState(Completed)
	faulted := newTask(s, func(*Control) error { return nil }, nil)
	faulted.setState(Faulted)
	pending := newTask(s, func(*Control) error { return nil }, nil)

	cases := []struct {
		mode  awaitMode
		tasks []*Task
		ready bool
	}{
		{awaitAll, []*Task{done, pending}, false},
		{awaitAll, []*Task{faulted, pending}, true},
		{awaitAllSettled, []*Task{faulted, pending}, false},
		{awaitAllSettled, []*Task{faulted, done}, true},
		{awaitAny, []*Task{faulted, pending}, false},
		{awaitAny, []*Task{faulted, faulted}, true},
		{awaitAny, []*Task{done, pending}, true},
		{awaitFirst, []*Task{faulted, pending}, true},
		{awaitFirst, []*Task{pending}, false},
	}
	for i, c := range cases {
		w := suspension{kind: WaitTasks, mode: c.mode, tasks: c.tasks}
		if w.ready() != c.ready {
			t.Errorf("case %v: expected ready=%v", i, c.ready)
		}
	}
}
