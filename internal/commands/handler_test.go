package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

type testMessage struct{}

func (testMessage) Type() string { return "activity_finder.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "activity_finder.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	}, WithOperation[testMessage]("test.op"), WithTelemetry(func(_ context.Context, _ testMessage, got TelemetryInfo) {
		info = got
	}))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected error")
	}
	if info.Status != TelemetryStatusFailed || info.Operation != "test.op" || info.Error == nil {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Command != "activity_finder.test.message" {
		t.Fatalf("unexpected command %q", info.Command)
	}
}

type recordingLogger struct {
	entries *[]string
}

func (r recordingLogger) Trace(string, ...any)       {}
func (r recordingLogger) Debug(string, ...any)       {}
func (r recordingLogger) Info(msg string, _ ...any)  { *r.entries = append(*r.entries, "info:"+msg) }
func (r recordingLogger) Warn(msg string, _ ...any)  { *r.entries = append(*r.entries, "warn:"+msg) }
func (r recordingLogger) Error(msg string, _ ...any) { *r.entries = append(*r.entries, "error:"+msg) }
func (r recordingLogger) Fatal(string, ...any)       {}
func (r recordingLogger) WithFields(map[string]any) interfaces.Logger {
	return r
}
func (r recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func TestDefaultTelemetryFallsBackToHandlerLogger(t *testing.T) {
	var entries []string
	logger := recordingLogger{entries: &entries}

	ok := NewHandler[testMessage](func(context.Context, testMessage) error { return nil },
		WithLogger[testMessage](logger), WithTelemetry(DefaultTelemetry[testMessage](nil)))
	if err := ok.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	canceled := NewHandler[testMessage](func(ctx context.Context, _ testMessage) error { return nil },
		WithLogger[testMessage](logger), WithTelemetry(DefaultTelemetry[testMessage](nil)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := canceled.Execute(ctx, testMessage{}); err == nil {
		t.Fatal("expected canceled context to fail")
	}

	if len(entries) != 1 || entries[0] != "info:activity_finder.command.succeeded" {
		t.Fatalf("unexpected log entries %v", entries)
	}
}
