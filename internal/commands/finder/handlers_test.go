package findercmd

import (
	"context"
	"errors"
	"testing"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/internal/backend"
	"github.com/goliatone/go-activity-finder/internal/cachetags"
	"github.com/goliatone/go-activity-finder/internal/finder"
	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/settings"
)

func newFinderService(t *testing.T, checksum *cachetags.MemoryChecksum) finder.Service {
	t.Helper()
	store, err := settings.NewService(settings.NewMemoryRepository())
	if err != nil {
		t.Fatalf("settings.NewService: %v", err)
	}
	return finder.NewService(
		finder.NewMemoryBlockRepository(),
		store,
		backend.NewStatic(backend.FacetData{CategoriesType: "search"}),
		finder.WithTagChecksum(checksum),
	)
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterCommandsWiresEveryHandler(t *testing.T) {
	registry := &recordingRegistry{}
	set, err := RegisterCommands(registry, newFinderService(t, cachetags.NewMemoryChecksum()), nil, FeatureGates{})
	if err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if len(registry.handlers) != 5 {
		t.Fatalf("expected 5 registered handlers, got %d", len(registry.handlers))
	}
	if set.Place == nil || set.InvalidateFacetData == nil {
		t.Fatalf("expected populated handler set, got %+v", set)
	}
	if _, err := RegisterCommands(registry, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestPlaceSubmitRemoveFlow(t *testing.T) {
	ctx := context.Background()
	svc := newFinderService(t, cachetags.NewMemoryChecksum())
	gates := FeatureGates{Enabled: func() bool { return true }}

	place := NewPlaceBlockHandler(svc, logging.NoOp(), gates)
	if err := place.Execute(ctx, PlaceBlockCommand{Region: "content", Label: "Finder"}); err != nil {
		t.Fatalf("place: %v", err)
	}
	blocks, err := svc.List(ctx, "content")
	if err != nil || len(blocks) != 1 {
		t.Fatalf("expected one placed block, got %v (%v)", blocks, err)
	}
	id := blocks[0].ID

	submit := NewSubmitBlockSettingsHandler(svc, logging.NoOp(), gates)
	if err := submit.Execute(ctx, SubmitBlockSettingsCommand{
		BlockID: id,
		Values:  map[string]any{finder.FieldLegacyMode: true},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	stored, err := svc.Get(ctx, id)
	if err != nil || !stored.LegacyMode {
		t.Fatalf("expected legacy mode stored, got %+v (%v)", stored, err)
	}

	remove := NewRemoveBlockHandler(svc, logging.NoOp(), gates)
	if err := remove.Execute(ctx, RemoveBlockCommand{BlockID: id}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := svc.Get(ctx, id); err == nil {
		t.Fatal("expected block to be removed")
	}
}

func TestPlaceBlockValidation(t *testing.T) {
	handler := NewPlaceBlockHandler(newFinderService(t, cachetags.NewMemoryChecksum()), logging.NoOp(), FeatureGates{})
	err := handler.Execute(context.Background(), PlaceBlockCommand{Region: "   "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestSubmitRequiresBlockID(t *testing.T) {
	if err := (SubmitBlockSettingsCommand{}).Validate(); err == nil {
		t.Fatal("expected missing block id to fail validation")
	}
	if err := (RemoveBlockCommand{BlockID: uuid.New()}).Validate(); err != nil {
		t.Fatalf("expected valid remove command, got %v", err)
	}
	if err := (SaveSettingsCommand{}).Validate(); err == nil {
		t.Fatal("expected empty settings document to fail validation")
	}
}

func TestSaveSettingsInvalidatesSettingsTag(t *testing.T) {
	ctx := context.Background()
	checksum := cachetags.NewMemoryChecksum()
	handler := NewSaveSettingsHandler(newFinderService(t, checksum), logging.NoOp(), FeatureGates{})

	if err := handler.Execute(ctx, SaveSettingsCommand{Data: map[string]any{settings.KeyBackend: "solr_backend"}}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	sum, err := checksum.Checksum(ctx, []string{finder.SettingsCacheTag})
	if err != nil || sum != 1 {
		t.Fatalf("expected settings tag invalidated once, got %d (%v)", sum, err)
	}
}

func TestInvalidateFacetDataHandler(t *testing.T) {
	ctx := context.Background()
	checksum := cachetags.NewMemoryChecksum()
	handler := NewInvalidateFacetDataHandler(newFinderService(t, checksum), logging.NoOp(), FeatureGates{})

	if err := handler.Execute(ctx, InvalidateFacetDataCommand{}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	sum, _ := checksum.Checksum(ctx, []string{cachetags.FacetDataTag})
	if sum != 1 {
		t.Fatalf("expected facet tag invalidated once, got %d", sum)
	}
}

func TestHandlersRespectFeatureGate(t *testing.T) {
	checksum := cachetags.NewMemoryChecksum()
	handler := NewInvalidateFacetDataHandler(newFinderService(t, checksum), logging.NoOp(), FeatureGates{
		Enabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), InvalidateFacetDataCommand{})
	if !errors.Is(err, ErrModuleDisabled) {
		t.Fatalf("expected ErrModuleDisabled, got %v", err)
	}
	if sum, _ := checksum.Checksum(context.Background(), []string{cachetags.FacetDataTag}); sum != 0 {
		t.Fatalf("expected no invalidation, got %d", sum)
	}
}

func TestRegisterFacetRefreshCron(t *testing.T) {
	checksum := cachetags.NewMemoryChecksum()
	set, err := RegisterCommands(nil, newFinderService(t, checksum), nil, FeatureGates{})
	if err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}

	var job func() error
	registrar := func(cfg command.HandlerConfig, handler any) error {
		if cfg.Expression != "@every 15m" {
			t.Fatalf("unexpected expression %q", cfg.Expression)
		}
		job, _ = handler.(func() error)
		return nil
	}
	if err := RegisterFacetRefreshCron(registrar, set.InvalidateFacetData, command.HandlerConfig{Expression: "@every 15m"}); err != nil {
		t.Fatalf("RegisterFacetRefreshCron: %v", err)
	}
	if job == nil {
		t.Fatal("expected cron job to be registered")
	}
	if err := job(); err != nil {
		t.Fatalf("cron job: %v", err)
	}
	if sum, _ := checksum.Checksum(context.Background(), []string{cachetags.FacetDataTag}); sum != 1 {
		t.Fatalf("expected cron run to invalidate facet data, got %d", sum)
	}
}
