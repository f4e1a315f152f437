// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package memorycard

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/yuk320/wechaty/lib/codec"
	"github.com/yuk320/wechaty/lib/sqlitepool"
)

// SQLiteStore persists a card in a `card` table. Bots that already
// keep other state in SQLite can point this store at the same
// database file; the table is created on open.
type SQLiteStore struct {
	pool *sqlitepool.Pool
}

// SQLiteConfig configures a SQLite-backed store.
type SQLiteConfig struct {
	// Path is the database file. The parent directory must exist.
	// ":memory:" works for tests with PoolSize 1.
	Path string

	// PoolSize is the connection pool size. The card workload is a
	// whole-table read and a whole-table replace, so the default of
	// 2 is plenty.
	PoolSize int

	// Logger receives pool lifecycle messages.
	Logger *slog.Logger
}

const cardSchema = `
	CREATE TABLE IF NOT EXISTS card (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);
`

// NewSQLiteStore opens the database and ensures the card table
// exists. The caller must Close the store when done.
func NewSQLiteStore(config SQLiteConfig) (*SQLiteStore, error) {
	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = 2
	}
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     config.Path,
		PoolSize: poolSize,
		Logger:   config.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, cardSchema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("memorycard: opening sqlite store: %w", err)
	}
	return &SQLiteStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *SQLiteStore) Close() error {
	return s.pool.Close()
}

// Load reads every row of the card table.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]codec.RawMessage, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("memorycard: load: %w", err)
	}
	defer s.pool.Put(conn)

	entries := make(map[string]codec.RawMessage)
	err = sqlitex.Execute(conn, "SELECT key, value FROM card", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value := make([]byte, stmt.ColumnLen(1))
			stmt.ColumnBytes(1, value)
			entries[stmt.ColumnText(0)] = value
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("memorycard: reading card table: %w", err)
	}
	return entries, nil
}

// Save replaces the card table's contents in one transaction, so a
// concurrent Load sees either the old card or the new one.
func (s *SQLiteStore) Save(ctx context.Context, entries map[string]codec.RawMessage) (err error) {
	conn, takeErr := s.pool.Take(ctx)
	if takeErr != nil {
		return fmt.Errorf("memorycard: save: %w", takeErr)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("memorycard: begin save transaction: %w", err)
	}
	defer endTransaction(&err)

	if err = sqlitex.ExecuteTransient(conn, "DELETE FROM card", nil); err != nil {
		return fmt.Errorf("memorycard: clearing card table: %w", err)
	}
	for key, value := range entries {
		err = sqlitex.Execute(conn, "INSERT INTO card (key, value) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{key, []byte(value)},
		})
		if err != nil {
			return fmt.Errorf("memorycard: inserting %q: %w", key, err)
		}
	}
	return nil
}
