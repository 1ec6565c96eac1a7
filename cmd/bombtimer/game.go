package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nvlled/turnip"
)

type Outcome string

const (
	Exploded Outcome = "exploded"
	Defused  Outcome = "defused"
)

// Game drives the bombs of a scenario and keeps the game clock.
type Game struct {
	sched *turnip.Scheduler
	out   io.Writer
	clock time.Duration
	names []string
	bombs []*turnip.Task
}

func NewGame(sched *turnip.Scheduler, out io.Writer) *Game {
	return &Game{sched: sched, out: out}
}

// Tick advances the clock, then the scheduler.
func (g *Game) Tick(dt time.Duration) {
	g.clock += dt
	g.sched.Tick(dt)
}

func (g *Game) Plant(sc *Scenario) {
	for _, b := range sc.Bombs {
		g.names = append(g.names, b.Name)
		g.bombs = append(g.bombs, g.sched.Spawn(g.countdown(b)))
	}
}

func (g *Game) countdown(b Bomb) turnip.Script {
	return func(ctrl *turnip.Control) error {
		remaining := b.Fuse
		defused, err := ctrl.CancelOn(
			func() bool { return b.DefuseAt > 0 && g.clock >= b.DefuseAt },
			turnip.Repeat(
				func() bool { return remaining > 0 },
				func(ctrl *turnip.Control) error {
					g.printf("%v: %v", b.Name, remaining)
					step := min(time.Second, remaining)
					ctrl.Wait(step)
					remaining -= step
					return nil
				},
			),
		)
		if err != nil {
			return err
		}

		if defused {
			g.printf("%v: defused with %v left", b.Name, remaining)
			ctrl.SetResult(Defused)
			return nil
		}
		g.printf("%v: BOOM", b.Name)
		ctrl.SetResult(Exploded)
		return nil
	}
}

// Run ticks until every bomb has gone off or been defused.
// With simulate set, ticks use a fixed step and no real time passes.
func (g *Game) Run(ctx context.Context, fps int, simulate bool) error {
	interval := time.Second / time.Duration(fps)
	if !simulate {
		return turnip.RunLoop(ctx, g, interval, g.sched.Idle)
	}
	for !g.sched.Idle() {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.Tick(interval)
	}
	return nil
}

// Outcomes returns how each bomb ended, by name.
func (g *Game) Outcomes() map[string]Outcome {
	outcomes := map[string]Outcome{}
	for i, task := range g.bombs {
		name := g.names[i]
		if outcome, ok := turnip.ResultAs[Outcome](task); ok {
			outcomes[name] = outcome
		} else {
			outcomes[name] = Outcome(task.State().String())
		}
	}
	return outcomes
}

func (g *Game) printf(format string, args ...any) {
	fmt.Fprintf(g.out, "[%6.2fs] %v\n", g.clock.Seconds(), fmt.Sprintf(format, args...))
}
