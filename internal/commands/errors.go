package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeInvalidMessage = "ACTIVITY_FINDER_COMMAND_INVALID"
	codeCanceled       = "ACTIVITY_FINDER_COMMAND_CANCELED"
	codeTimedOut       = "ACTIVITY_FINDER_COMMAND_TIMED_OUT"
	codeContext        = "ACTIVITY_FINDER_COMMAND_CONTEXT"
	codeFailed         = "ACTIVITY_FINDER_COMMAND_FAILED"
)

// categorize applies wrap once. Errors already carrying a go-errors category
// keep it so handlers can return domain categories unchanged.
func categorize(err error, wrap func(error) error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return wrap(err)
}

func commandError(message, code string) func(error) error {
	return func(err error) error {
		return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
	}
}

func wrapValidationError(err error) error {
	return categorize(err, func(err error) error {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "activity finder command is invalid").
			WithTextCode(codeInvalidMessage)
	})
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return categorize(err, commandError("activity finder command canceled", codeCanceled))
	case errors.Is(err, context.DeadlineExceeded):
		return categorize(err, commandError("activity finder command timed out", codeTimedOut))
	default:
		return categorize(err, commandError("activity finder command context error", codeContext))
	}
}

func wrapExecuteError(err error) error {
	return categorize(err, commandError("activity finder command failed", codeFailed))
}
