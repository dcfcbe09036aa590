package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var errDatabaseRequired = errors.New("settings: bun repository requires a database")

// BunRepository persists the settings document as a JSON column.
type BunRepository struct {
	db          *bun.DB
	broadcaster *changeBroadcaster
}

// NewBunRepository constructs a Bun-backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		broadcaster: newChangeBroadcaster(),
	}
}

// Get returns the persisted settings.
func (r *BunRepository) Get(ctx context.Context) (Settings, error) {
	if r.db == nil {
		return Settings{}, errDatabaseRequired
	}
	var model Record
	if err := r.db.NewSelect().Model(&model).Where("name = ?", Name).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrSettingsNotFound
		}
		return Settings{}, err
	}
	return New(model.Data), nil
}

// Upsert creates or updates the persisted settings.
func (r *BunRepository) Upsert(ctx context.Context, settings Settings) (Settings, error) {
	if r.db == nil {
		return Settings{}, errDatabaseRequired
	}

	var existing Record
	err := r.db.NewSelect().Model(&existing).Where("name = ?", Name).Scan(ctx)
	created := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return Settings{}, err
		}
		created = true
	}

	model := Record{
		Name:      Name,
		Data:      settings.RawData(),
		UpdatedAt: time.Now().UTC(),
	}

	if created {
		if _, err := r.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return Settings{}, err
		}
	} else {
		if _, err := r.db.NewUpdate().
			Model(&model).
			Column("data", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return Settings{}, err
		}
	}

	stored, err := r.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	eventType := ChangeUpdated
	if created {
		eventType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(eventType, stored))
	return stored, nil
}

// Delete clears persisted settings.
func (r *BunRepository) Delete(ctx context.Context) error {
	if r.db == nil {
		return errDatabaseRequired
	}
	res, err := r.db.NewDelete().Model((*Record)(nil)).Where("name = ?", Name).Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrSettingsNotFound
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, Settings{}))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

// Record is the stored row of a named settings object.
type Record struct {
	bun.BaseModel `bun:"table:activity_finder_settings"`

	Name      string         `bun:"name,pk" json:"name"`
	Data      map[string]any `bun:"data,type:jsonb,notnull" json:"data"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
