package turnip_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/nvlled/turnip"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := turnip.New(turnip.WithLogger(logger))
	defer s.Close()

	task := s.Spawn(func(ctrl *turnip.Control) error {
		ctrl.Logf("count=%v", 3)
		ctrl.Yield()
		return errors.New("boom")
	})
	s.Tick(frameTime)
	s.Tick(frameTime)

	output := buf.String()
	for _, want := range []string{
		"task spawned",
		"count=3",
		"task=" + task.String(),
		"scheduler=" + s.ID(),
		"level=WARN msg=\"task faulted\"",
		"error=boom",
		"task reaped",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLoggingCancelIsNotAFault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := turnip.New(turnip.WithLogger(logger))
	defer s.Close()

	task := s.Spawn(func(ctrl *turnip.Control) error {
		ctrl.Abyss()
		return nil
	})
	s.Tick(frameTime)
	task.Cancel()

	output := buf.String()
	if !strings.Contains(output, "task cancelled") {
		t.Errorf("expected cancellation in output, got: %s", output)
	}
	if strings.Contains(output, "WARN") {
		t.Errorf("cancellation should not be logged as a fault, got: %s", output)
	}
}

func TestLoggingDisabledByDefault(t *testing.T) {
	s := turnip.New()
	defer s.Close()

	s.Spawn(func(ctrl *turnip.Control) error {
		ctrl.Logf("nobody listens")
		return nil
	})
	s.Tick(frameTime)
}
