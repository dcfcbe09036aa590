package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
)

const (
	themeTemplateKey = "activity_finder"
	themeLibraryKey  = "activity_finder.library"
)

// Theme resolves the block template and client library from a go-theme
// selection. A Theme without a selection returns the defaults.
type Theme struct {
	selection *gotheme.Selection
}

// LoadTheme reads the manifest under cfg.BasePath and selects cfg.Name with
// cfg.Variant. An empty base path yields the default theme.
func LoadTheme(cfg runtimeconfig.ThemeConfig) (*Theme, error) {
	base := strings.TrimSpace(cfg.BasePath)
	if base == "" {
		return &Theme{}, nil
	}

	manifest, err := gotheme.LoadDir(os.DirFS(filepath.Clean(base)), ".")
	if err != nil {
		return nil, fmt.Errorf("finder: load theme manifest from %s: %w", base, err)
	}
	normalized := *manifest
	if name := strings.TrimSpace(cfg.Name); name != "" && !strings.EqualFold(normalized.Name, name) {
		normalized.Name = name
	}
	if strings.TrimSpace(normalized.Name) == "" {
		return nil, fmt.Errorf("finder: theme name required for %s", base)
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("finder: register theme manifest: %w", err)
	}
	selector := gotheme.Selector{
		Registry:       registry,
		DefaultTheme:   normalized.Name,
		DefaultVariant: strings.TrimSpace(cfg.Variant),
	}
	selection, err := selector.Select(normalized.Name, strings.TrimSpace(cfg.Variant))
	if err != nil {
		return nil, fmt.Errorf("finder: select theme %s: %w", normalized.Name, err)
	}
	return &Theme{selection: selection}, nil
}

// Template returns the template name used to render the block.
func (t *Theme) Template() string {
	if t == nil || t.selection == nil {
		return DefaultTemplate
	}
	return t.selection.Template(themeTemplateKey, DefaultTemplate)
}

// Library returns the client library attached to the block.
func (t *Theme) Library() string {
	if t == nil || t.selection == nil {
		return DefaultLibrary
	}
	if library, _ := t.selection.Asset(themeLibraryKey); strings.TrimSpace(library) != "" {
		return library
	}
	return DefaultLibrary
}
