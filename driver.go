package turnip

import (
	"context"
	"time"
)

// A Ticker is advanced once per frame by a frame driver.
// *Scheduler is a Ticker.
type Ticker interface {
	Tick(dt time.Duration)
}

// RunLoop calls t.Tick() every interval, passing the real time
// elapsed since the previous call, until ctx is done or until
// returns true. until is checked after every tick and may be nil.
//
//	Note: actual frame times drift by however long the
//	scripts take to run. dt always reflects the real elapsed time.
func RunLoop(ctx context.Context, t Ticker, interval time.Duration, until func() bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t.Tick(now.Sub(last))
			last = now
			if until != nil && until() {
				return nil
			}
		}
	}
}

// Step calls t.Tick(dt) count times.
// Useful for simulations and tests that need a fixed timestep.
func Step(t Ticker, count int, dt time.Duration) {
	for i := 0; i < count; i++ {
		t.Tick(dt)
	}
}

// RunUntilIdle ticks with a fixed dt until every task has ended,
// or maxFrames ticks have run. It returns the number of ticks run
// and whether the scheduler went idle.
func (s *Scheduler) RunUntilIdle(dt time.Duration, maxFrames int) (int, bool) {
	for frames := 0; frames < maxFrames; frames++ {
		if s.Idle() {
			return frames, true
		}
		s.Tick(dt)
	}
	return maxFrames, s.Idle()
}
