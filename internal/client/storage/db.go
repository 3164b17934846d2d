// Package storage opens the configured persistence backend and hands it to
// the repositories as a kv.Store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// busyTimeout makes a connection wait for a competing writer instead of
// failing with SQLITE_BUSY.
const busyTimeout = "_pragma=busy_timeout(5000)"

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + busyTimeout
	}
	return path + "?" + busyTimeout
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at path and migrates it.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// Open returns a kv.Store for the named backend located at path.
func Open(ctx context.Context, backend, path string) (kv.Store, error) {
	switch backend {
	case "", BackendSQLite:
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, err
		}
		return kv.NewSQLiteStore(db), nil
	case BackendBolt:
		return kv.OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
