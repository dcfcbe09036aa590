package commands

import (
	"strings"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const commandModuleRoot = "activity_finder.commands"

// CommandLogger returns a logger scoped to a command module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
