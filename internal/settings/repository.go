package settings

import (
	"context"
	"errors"
	"maps"
	"strconv"
	"strings"
)

// Name identifies the activity finder settings object.
const Name = "activity_finder.settings"

// CacheTag is invalidated whenever the settings object is saved or reset.
const CacheTag = "config:" + Name

const (
	KeyBackend               = "backend"
	KeyDisableSearchBox      = "disable_search_box"
	KeyDisableSpotsAvailable = "disable_spots_available"
)

var (
	// ErrSettingsNotFound indicates the settings object has not been stored yet.
	ErrSettingsNotFound = errors.New("settings: activity finder settings not found")
	// ErrRepositoryRequired indicates the service was built without a repository.
	ErrRepositoryRequired = errors.New("settings: repository is required")
)

// Settings wraps the activity finder settings document. Missing keys read as
// zero values.
type Settings struct {
	data map[string]any
}

// New builds settings from a raw document. The map is copied.
func New(data map[string]any) Settings {
	return Settings{data: maps.Clone(data)}
}

// Backend returns the configured backend service id.
func (s Settings) Backend() string {
	value, _ := s.data[KeyBackend].(string)
	return strings.TrimSpace(value)
}

// DisableSearchBox reports whether the free text search box is hidden.
func (s Settings) DisableSearchBox() bool {
	return toBool(s.data[KeyDisableSearchBox])
}

// DisableSpotsAvailable reports whether the spots available filter is hidden.
func (s Settings) DisableSpotsAvailable() bool {
	return toBool(s.data[KeyDisableSpotsAvailable])
}

// Get returns a single raw value.
func (s Settings) Get(key string) (any, bool) {
	value, ok := s.data[key]
	return value, ok
}

// RawData returns a copy of the whole document.
func (s Settings) RawData() map[string]any {
	if s.data == nil {
		return map[string]any{}
	}
	return maps.Clone(s.data)
}

// IsZero reports whether the document is empty.
func (s Settings) IsZero() bool {
	return len(s.data) == 0
}

// Repository persists the settings document and emits change notifications.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
	Delete(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates settings change events.
type ChangeType string

const (
	// ChangeCreated indicates settings were first persisted.
	ChangeCreated ChangeType = "created"
	// ChangeUpdated indicates settings were updated.
	ChangeUpdated ChangeType = "updated"
	// ChangeDeleted indicates settings were cleared.
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports settings mutations to interested subscribers.
type ChangeEvent struct {
	Type     ChangeType
	Settings Settings
}

func newChangeEvent(changeType ChangeType, settings Settings) ChangeEvent {
	return ChangeEvent{
		Type:     changeType,
		Settings: settings,
	}
}

// toBool accepts the loose encodings stored documents use for flags.
func toBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case float64:
		return typed != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	default:
		return false
	}
}
