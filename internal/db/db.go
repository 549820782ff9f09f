// Package db opens the embedded SQLite database and keeps its schema current.
package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens (creating if needed) the database at path, enables foreign keys
// and applies the schema.
func Open(ctx context.Context, path string, log *zap.Logger) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, DriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// A single connection serialises writers and keeps in-memory databases alive.
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info("database ready", zap.String("path", path))
	return conn, nil
}

func dsn(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	if path != MemoryPath {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?" + params.Encode()
}
