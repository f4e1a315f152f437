// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// connectionPragmas run once on every pool connection before it is
// handed out. WAL keeps readers unblocked during card saves; the busy
// timeout absorbs write contention instead of surfacing SQLITE_BUSY
// to callers.
var connectionPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=OFF",
	"PRAGMA cache_size=-8192",
	"PRAGMA mmap_size=268435456",
	"PRAGMA temp_store=MEMORY",
}

// Config holds the parameters for opening a pool. Only Path is
// required.
type Config struct {
	// Path is the database file, created on first open. The parent
	// directory must exist. ":memory:" works for tests, but only
	// with PoolSize 1 — each in-memory connection sees its own
	// database.
	Path string

	// PoolSize is the number of connections. Zero or negative picks
	// a default from the CPU count. SQLite serializes writes no
	// matter how large the pool is; extra connections only buy
	// concurrent reads.
	PoolSize int

	// Logger receives open/close messages. Nil discards them.
	Logger *slog.Logger

	// OnConnect runs once per connection after the pragmas, for
	// schema creation and per-caller pragmas. An error discards the
	// connection and surfaces from Take.
	OnConnect func(conn *sqlite.Conn) error
}

// Pool wraps sqlitex.Pool with the module's pragmas and exposes the
// same Take/Put API. The pool itself is safe for concurrent use;
// individual connections are not, so every goroutine must Take its
// own and Put it back.
type Pool struct {
	inner  *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// Open opens the database and builds the pool. Connections are
// initialized lazily on first Take. The caller must Close the pool
// when done.
func Open(cfg Config) (*Pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitepool: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize()
	}

	inner, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize: poolSize,
		PrepareConn: func(conn *sqlite.Conn) error {
			return prepareConnection(conn, cfg.OnConnect)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: opening %s: %w", cfg.Path, err)
	}

	logger.Info("sqlite pool opened",
		"path", cfg.Path,
		"pool_size", poolSize,
	)

	return &Pool{
		inner:  inner,
		logger: logger,
		path:   cfg.Path,
	}, nil
}

func defaultPoolSize() int {
	size := runtime.NumCPU()
	if size < 4 {
		size = 4
	}
	return size
}

// Take borrows a connection, blocking until one is free or ctx is
// cancelled. The caller must Put it back, typically via defer:
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
func (p *Pool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: take: %w", err)
	}
	return conn, nil
}

// Put returns a connection to the pool. Nil is a no-op. The caller
// must not touch the connection afterwards.
func (p *Pool) Put(conn *sqlite.Conn) {
	p.inner.Put(conn)
}

// Close closes every connection, blocking until all borrowed ones
// come back. Take fails after Close.
func (p *Pool) Close() error {
	err := p.inner.Close()
	if err != nil {
		p.logger.Error("sqlite pool close error",
			"path", p.path,
			"error", err,
		)
		return fmt.Errorf("sqlitepool: closing %s: %w", p.path, err)
	}
	p.logger.Info("sqlite pool closed", "path", p.path)
	return nil
}

func prepareConnection(conn *sqlite.Conn, onConnect func(*sqlite.Conn) error) error {
	for _, pragma := range connectionPragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlitepool: %s: %w", pragma, err)
		}
	}

	if onConnect != nil {
		if err := onConnect(conn); err != nil {
			return fmt.Errorf("sqlitepool: OnConnect: %w", err)
		}
	}

	return nil
}
