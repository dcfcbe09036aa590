package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const (
	rootModule     = "activity_finder"
	blockModule    = "activity_finder.block"
	backendModule  = "activity_finder.backend"
	mediaModule    = "activity_finder.media"
	settingsModule = "activity_finder.settings"
)

const (
	fieldBlockID  = "block_id"
	fieldRegion   = "region"
	fieldBackend  = "backend"
	fieldMediaRef = "media_reference"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// QualifiedModule prefixes short module names ("block", "media") with the
// activity_finder root so they match the names used by ModuleLogger.
func QualifiedModule(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == rootModule || strings.HasPrefix(name, rootModule+".") {
		return name
	}
	return rootModule + "." + name
}

// BlockLogger returns the logger namespace reserved for the finder block.
func BlockLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blockModule)
}

// BackendLogger returns the logger namespace reserved for facet backends.
func BackendLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, backendModule)
}

// MediaLogger returns the logger namespace reserved for media resolution.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// SettingsLogger returns the logger namespace reserved for the settings store.
func SettingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, settingsModule)
}

// WithBlockContext enriches the logger with the block placement and backend
// in use. Empty values are ignored.
func WithBlockContext(logger interfaces.Logger, blockID, region, backend string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(blockID); trimmed != "" {
		fields[fieldBlockID] = trimmed
	}
	if trimmed := strings.TrimSpace(region); trimmed != "" {
		fields[fieldRegion] = trimmed
	}
	if trimmed := strings.TrimSpace(backend); trimmed != "" {
		fields[fieldBackend] = trimmed
	}
	return WithFields(logger, fields)
}

// WithMediaReference tags entries with the media reference being resolved.
func WithMediaReference(logger interfaces.Logger, reference string) interfaces.Logger {
	if trimmed := strings.TrimSpace(reference); trimmed != "" {
		return WithFields(logger, map[string]any{fieldMediaRef: trimmed})
	}
	return logger
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
