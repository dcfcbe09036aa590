package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const (
	// MigrationsDir is the root of the embedded migration tree. Dialect
	// specific overrides live in a sub directory named after the provider.
	MigrationsDir = "data/sql/migrations"

	migrationsTable = "activity_finder_schema_migrations"
	statementSplit  = "---bun:split"
	upSuffix        = ".up.sql"
)

// Migrate applies every pending *.up.sql file from fsys in name order. A file
// under MigrationsDir/<provider>/ replaces the generic file of the same name.
// Applied names are recorded so reruns are no-ops. It returns the names
// applied by this call.
func Migrate(ctx context.Context, provider interfaces.StorageProvider, fsys fs.FS, dialect string) ([]string, error) {
	files, err := migrationFiles(fsys, dialect)
	if err != nil {
		return nil, err
	}

	if _, err := provider.Exec(ctx, "CREATE TABLE IF NOT EXISTS "+migrationsTable+" (name VARCHAR(255) PRIMARY KEY)"); err != nil {
		return nil, fmt.Errorf("storage: create migrations table: %w", err)
	}
	applied, err := appliedMigrations(ctx, provider)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	ran := make([]string, 0)
	for _, name := range names {
		if applied[name] {
			continue
		}
		raw, err := fs.ReadFile(fsys, files[name])
		if err != nil {
			return ran, fmt.Errorf("storage: read migration %s: %w", name, err)
		}
		err = provider.Transaction(ctx, func(tx interfaces.Transaction) error {
			for _, statement := range splitStatements(string(raw), dialect) {
				if _, err := tx.Exec(ctx, statement); err != nil {
					return fmt.Errorf("storage: migration %s: %w", name, err)
				}
			}
			_, err := tx.Exec(ctx, "INSERT INTO "+migrationsTable+" (name) VALUES ("+placeholder(dialect)+")", name)
			return err
		})
		if err != nil {
			return ran, err
		}
		ran = append(ran, name)
	}
	return ran, nil
}

func migrationFiles(fsys fs.FS, dialect string) (map[string]string, error) {
	files := make(map[string]string)
	for _, dir := range []string{MigrationsDir, path.Join(MigrationsDir, dialect)} {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			if dir != MigrationsDir {
				continue
			}
			return nil, fmt.Errorf("storage: read migrations: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
				continue
			}
			files[entry.Name()] = path.Join(dir, entry.Name())
		}
	}
	return files, nil
}

func appliedMigrations(ctx context.Context, provider interfaces.StorageProvider) (map[string]bool, error) {
	rows, err := provider.Query(ctx, "SELECT name FROM "+migrationsTable)
	if err != nil {
		return nil, fmt.Errorf("storage: list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list applied migrations: %w", err)
	}
	return applied, nil
}

func splitStatements(content, dialect string) []string {
	if dialect != ProviderPostgres {
		// sqlite rejects postgres casts in defaults.
		content = strings.ReplaceAll(content, "::jsonb", "")
		content = strings.ReplaceAll(content, "::JSONB", "")
	}
	statements := make([]string, 0)
	for _, chunk := range strings.Split(content, statementSplit) {
		if statement := strings.TrimSpace(chunk); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func placeholder(dialect string) string {
	if dialect == ProviderPostgres {
		return "$1"
	}
	return "?"
}
