// Package storage opens the Bun database behind the SQL repositories and
// applies the embedded schema migrations.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
)

const (
	ProviderMemory   = "memory"
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

// ErrMemoryProvider is returned by Open when the configuration keeps state in memory.
var ErrMemoryProvider = errors.New("storage: memory provider has no database")

// Provider returns the canonical provider name of cfg.
func Provider(cfg runtimeconfig.StorageConfig) string {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		return ProviderMemory
	}
	return provider
}

// Open connects to the configured SQL database.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch provider := Provider(cfg); provider {
	case ProviderMemory:
		return nil, ErrMemoryProvider
	case ProviderSQLite:
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// sqlite serialises writers; a single connection keeps in-memory DSNs coherent.
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case ProviderPostgres:
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, provider)
	}
}
