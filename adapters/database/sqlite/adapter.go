// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/query/placeholder"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	db     *sql.DB
	config database.Config
}

// NewSQLiteAdapter creates a new SQLite adapter.
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("sqlite: empty database url")
	}
	return &SQLiteAdapter{
		config: config,
	}, nil
}

// DefaultMaxConnections applies when Config.MaxConnections is zero. An open
// cursor pins its connection, so the pool needs room for a second statement.
const DefaultMaxConnections = 4

var memorySeq atomic.Uint64

// dsn maps the configured URL to a go-sqlite3 data source. ":memory:" becomes
// a named shared-cache database so every pooled connection sees the same
// data, and each adapter gets its own name. Foreign keys are enabled per
// connection through the DSN.
func dsn(url string) (string, bool) {
	memory := false
	switch {
	case url == ":memory:" || url == "file::memory:":
		url = fmt.Sprintf("file:pdo-go-mem-%d?mode=memory&cache=shared", memorySeq.Add(1))
		memory = true
	case strings.Contains(url, "mode=memory"):
		memory = true
	}

	params := []string{"_foreign_keys=1"}
	if !memory {
		params = append(params, "_busy_timeout=5000")
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&"), memory
}

// Connect establishes a connection to the SQLite database.
func (a *SQLiteAdapter) Connect(ctx context.Context) error {
	source, memory := dsn(a.config.URL)
	db, err := sql.Open(Dialect{}.DriverName(), source)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	maxConns := a.config.MaxConnections
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	if memory {
		// A memory database lives only while one connection holds it open.
		db.SetConnMaxIdleTime(0)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetConnMaxIdleTime(a.config.IdleTime())
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout())
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db
	return nil
}

// Disconnect closes the database connection.
func (a *SQLiteAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// DB returns the connection pool.
func (a *SQLiteAdapter) DB() *sql.DB {
	return a.db
}

// Ping checks if the database connection is alive.
func (a *SQLiteAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return a.db.PingContext(ctx)
}

// Dialect returns the SQLite dialect.
func (a *SQLiteAdapter) Dialect() database.Dialect {
	return Dialect{}
}

// Dialect binds slots by name: go-sqlite3 resolves sql.Named("p0", v) against @p0.
type Dialect struct{}

// Name returns the dialect name.
func (Dialect) Name() database.SQLDialect { return database.SQLite }

// DriverName returns the registered driver name.
func (Dialect) DriverName() string { return "sqlite3" }

// Placeholder renders @slot.
func (Dialect) Placeholder(slot string, ordinal int) string {
	return placeholder.AtName(slot, ordinal)
}

// BindStyle reports named binding.
func (Dialect) BindStyle() database.BindStyle { return database.BindByName }

// ServerVersionQuery returns the library version query.
func (Dialect) ServerVersionQuery() string { return "SELECT sqlite_version()" }

// ErrorInfo classifies sqlite3.Error values. Constraint failures map to
// SQLSTATE 23000, everything else to HY000.
func (Dialect) ErrorInfo(err error) (database.ErrorInfo, bool) {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return database.ErrorInfo{}, false
	}
	state := "HY000"
	if se.Code == sqlite3.ErrConstraint {
		state = "23000"
	}
	return database.ErrorInfo{
		SQLState: state,
		Code:     int(se.Code),
		Message:  se.Error(),
	}, true
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)

// Ensure Dialect implements database.Dialect.
var _ database.Dialect = Dialect{}
