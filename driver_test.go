package turnip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nvlled/turnip"
)

type tickRecorder struct {
	dts []time.Duration
}

func (r *tickRecorder) Tick(dt time.Duration) {
	r.dts = append(r.dts, dt)
}

func TestStep(t *testing.T) {
	r := &tickRecorder{}
	turnip.Step(r, 3, frameTime)
	if len(r.dts) != 3 {
		t.Fatal("wrong number of ticks", len(r.dts))
	}
	for _, dt := range r.dts {
		if dt != frameTime {
			t.Error("wrong dt", dt)
		}
	}
}

func TestRunLoopUntilIdle(t *testing.T) {
	s := turnip.New()
	defer s.Close()

	var elapsed time.Duration
	s.Spawn(func(ctrl *turnip.Control) error {
		for i := 0; i < 3; i++ {
			ctrl.Yield()
			elapsed += ctrl.DeltaTime()
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := turnip.RunLoop(ctx, s, time.Millisecond, s.Idle); err != nil {
		t.Fatal("loop should stop once idle", err)
	}
	if s.Frame() != 4 {
		t.Error("wrong number of frames", s.Frame())
	}
	if elapsed <= 0 {
		t.Error("dt should follow real time", elapsed)
	}
}

func TestRunLoopContext(t *testing.T) {
	r := &tickRecorder{}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := turnip.RunLoop(ctx, r, time.Millisecond, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("wrong error", err)
	}
	if len(r.dts) == 0 {
		t.Error("loop should have ticked")
	}
}

func TestRunUntilIdleLimit(t *testing.T) {
	s := turnip.New()
	defer s.Close()

	s.Spawn(func(ctrl *turnip.Control) error {
		ctrl.Abyss()
		return nil
	})

	frames, idle := s.RunUntilIdle(frameTime, 7)
	if idle || frames != 7 {
		t.Error("endless task should hit the limit", frames, idle)
	}
}
