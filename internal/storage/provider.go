package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

var errNoRows = errors.New("storage: no rows available")

// Executor is the subset of *sql.DB used by the SQL provider. Bun callers
// pass bunDB.DB.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// SQLProvider runs raw statements against a database handle.
type SQLProvider struct {
	db Executor
}

var _ interfaces.StorageProvider = (*SQLProvider)(nil)

// NewSQLProvider wraps db.
func NewSQLProvider(db Executor) *SQLProvider {
	return &SQLProvider{db: db}
}

func (p *SQLProvider) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (p *SQLProvider) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	return p.db.ExecContext(ctx, query, args...)
}

// Transaction runs fn inside a transaction, rolling back when fn fails.
func (p *SQLProvider) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin transaction: %w", err)
	}
	if err := fn(&sqlTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("storage: rollback after %w: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool {
	return r.rows != nil && r.rows.Next()
}

func (r *sqlRows) Scan(dest ...any) error {
	if r.rows == nil {
		return errNoRows
	}
	return r.rows.Scan(dest...)
}

func (r *sqlRows) Err() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Err()
}

func (r *sqlRows) Close() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// Transaction reuses the open transaction.
func (t *sqlTx) Transaction(_ context.Context, fn func(tx interfaces.Transaction) error) error {
	return fn(t)
}

func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	return t.tx.Rollback()
}
