package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/exp/slices"

	"github.com/nvlled/turnip"
)

func newRootCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "bombtimer",
		Usage: "Count down a few bombs, some of which get defused in time",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scenario",
				Aliases: []string{"s"},
				Usage:   "Path to a YAML scenario, the built-in one is used if empty",
			},
			&cli.IntFlag{
				Name:  "fps",
				Usage: "Frames per second",
				Value: 60,
			},
			&cli.BoolFlag{
				Name:  "simulate",
				Usage: "Run with a fixed timestep, as fast as possible",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
				Value: "text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runBombs(ctx, cmd, out)
		},
	}
}

func runBombs(ctx context.Context, cmd *cli.Command, out io.Writer) error {
	logger, err := newLogger(cmd.String("log-level"), cmd.String("log-format"))
	if err != nil {
		return err
	}
	fps := cmd.Int("fps")
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", fps)
	}
	sc, err := LoadScenario(cmd.String("scenario"))
	if err != nil {
		return err
	}

	sched := turnip.New(
		turnip.WithLogger(logger),
		turnip.WithPrealloc(len(sc.Bombs)),
		turnip.WithFaultHandler(func(task *turnip.Task, err error) {
			logger.Error("bomb malfunction", "task", task.String(), "error", err)
		}),
	)
	defer sched.Close()

	game := NewGame(sched, out)
	game.Plant(sc)
	if err := game.Run(ctx, fps, cmd.Bool("simulate")); err != nil {
		return err
	}

	outcomes := game.Outcomes()
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	slices.Sort(names)
	fmt.Fprintln(out, "---")
	for _, name := range names {
		fmt.Fprintf(out, "%v: %v\n", name, outcomes[name])
	}
	return nil
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}
