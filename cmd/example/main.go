package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/google/uuid"

	activityfinder "github.com/goliatone/go-activity-finder"
	findercmd "github.com/goliatone/go-activity-finder/internal/commands/finder"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json or toml)")
	dsn := flag.String("sqlite", "file:activity_finder_example?mode=memory&cache=shared", "sqlite dsn, empty keeps state in memory")
	flag.Parse()

	ctx := context.Background()

	cfg, err := activityfinder.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dsn != "" {
		cfg.Storage = activityfinder.StorageConfig{Provider: "sqlite", DSN: *dsn}
	}
	if len(cfg.Backends.Static.Categories) == 0 {
		cfg.Backends.Static = demoFacets()
	}
	cfg.Features.RenderCache = true

	module, err := activityfinder.New(cfg)
	if err != nil {
		log.Fatalf("init activity finder: %v", err)
	}
	defer module.Close()

	handlers := module.Commands()
	if handlers == nil {
		log.Fatalf("commands feature is disabled")
	}
	placeSub := dispatcher.SubscribeCommand(handlers.Place)
	defer placeSub.Unsubscribe()
	submitSub := dispatcher.SubscribeCommand(handlers.Submit)
	defer submitSub.Unsubscribe()
	invalidateSub := dispatcher.SubscribeCommand(handlers.InvalidateFacetData)
	defer invalidateSub.Unsubscribe()

	err = findercmd.RegisterFacetRefreshCron(func(cfg command.HandlerConfig, _ any) error {
		log.Printf("facet refresh scheduled: %s", cfg.Expression)
		return nil
	}, handlers.InvalidateFacetData, command.HandlerConfig{Expression: "@every 15m"})
	if err != nil {
		log.Fatalf("schedule facet refresh: %v", err)
	}

	item, err := module.Media().Create(ctx, &activityfinder.MediaItem{
		ID:      uuid.New(),
		Bundle:  "image",
		Name:    "Pool hero",
		FileURI: "public://hero/pool.jpg",
		Alt:     "Indoor pool",
	})
	if err != nil {
		log.Fatalf("seed media: %v", err)
	}

	blockID := uuid.New()
	if err := dispatcher.Dispatch(ctx, findercmd.PlaceBlockCommand{ID: blockID, Region: "content", Label: "Program finder"}); err != nil {
		log.Fatalf("place block: %v", err)
	}

	form, err := module.Finder().Form(ctx, blockID)
	if err != nil {
		log.Fatalf("form: %v", err)
	}
	printJSON("form", form)

	err = dispatcher.Dispatch(ctx, findercmd.SubmitBlockSettingsCommand{
		BlockID: blockID,
		Values: map[string]any{
			"legacy_mode":      true,
			"background_image": map[string]any{"target_id": "media:" + item.ID.String()},
		},
	})
	if err != nil {
		log.Fatalf("submit block settings: %v", err)
	}

	out, err := module.Finder().Build(ctx, blockID)
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	printJSON("render array", out)

	if err := dispatcher.Dispatch(ctx, findercmd.InvalidateFacetDataCommand{}); err != nil {
		log.Fatalf("invalidate facet data: %v", err)
	}
	fmt.Println("facet data invalidated; next build refetches backend facets")
}

func demoFacets() activityfinder.StaticBackendConfig {
	return activityfinder.StaticBackendConfig{
		SortOptions: []interfaces.SortOption{
			{Key: "title__ASC", Label: "By title (A-Z)"},
			{Key: "date__ASC", Label: "By date"},
		},
		Ages: []interfaces.Facet{
			{Label: "Preschool", Value: "0-4"},
			{Label: "Adults", Value: "18+"},
		},
		DaysOfWeek: []interfaces.Facet{{Label: "Monday", Value: "1"}, {Label: "Saturday", Value: "6"}},
		PartsOfDay: []interfaces.Facet{{Label: "Morning", Value: "morning"}, {Label: "Evening", Value: "evening"}},
		Categories: []interfaces.Facet{
			{Label: "Aquatics", Value: "aquatics", Children: []interfaces.Facet{
				{Label: "Swim lessons", Value: "swim_lessons"},
			}},
			{Label: "Youth Sports", Value: "youth_sports"},
		},
		CategoriesType: "multiple",
		Locations: []interfaces.Facet{
			{Label: "Branches", Value: "branch", Children: []interfaces.Facet{{Label: "Downtown", Value: "downtown"}}},
		},
	}
}

func printJSON(label string, value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatalf("encode %s: %v", label, err)
	}
	fmt.Fprintf(os.Stdout, "== %s ==\n%s\n", label, payload)
}
