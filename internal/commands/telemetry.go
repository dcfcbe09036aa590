package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// TelemetryStatus is the outcome of one command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to telemetry callbacks after a command ran.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry replaces the handler's outcome logging when set.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs outcomes with logger, or with the handler logger when
// logger is nil, adding the execution duration.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logger
		if entry == nil {
			entry = info.Logger
		} else {
			entry = logging.WithFields(entry, info.Fields)
		}
		logOutcome(EnsureLogger(entry), info.Status, info.Error, "duration_ms", info.Duration.Milliseconds())
	}
}

func logOutcome(logger interfaces.Logger, status TelemetryStatus, err error, args ...any) {
	switch status {
	case TelemetryStatusSuccess:
		logger.Info("activity_finder.command.succeeded", args...)
	case TelemetryStatusContextError:
		logger.Warn("activity_finder.command.interrupted", append(args, "error", err)...)
	default:
		logger.Error("activity_finder.command.failed", append(args, "error", err)...)
	}
}
