package testsupport

import (
	"database/sql"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a private in-memory database. Connections of the
// returned handle share it; other calls get their own.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file:testsupport-"+uuid.NewString()+"?mode=memory&cache=shared")
}
