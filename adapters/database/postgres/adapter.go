// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/query/placeholder"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	db     *sql.DB
	config database.Config
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	return &PostgresAdapter{
		config: config,
	}, nil
}

// Connect establishes a connection to the PostgreSQL database.
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	connector, err := pq.NewConnector(a.config.URL)
	if err != nil {
		return fmt.Errorf("invalid connection string: %w", err)
	}
	db := sql.OpenDB(connector)

	// Set connection pool settings
	if a.config.MaxConnections > 0 {
		db.SetMaxOpenConns(a.config.MaxConnections)
		db.SetMaxIdleConns(a.config.MaxConnections / 2)
	}
	db.SetConnMaxIdleTime(a.config.IdleTime())

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
func (a *PostgresAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// DB returns the connection pool.
func (a *PostgresAdapter) DB() *sql.DB {
	return a.db
}

// Ping checks if the database connection is alive.
func (a *PostgresAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return a.db.PingContext(ctx)
}

// Dialect returns the PostgreSQL dialect.
func (a *PostgresAdapter) Dialect() database.Dialect {
	return Dialect{}
}

// Dialect renders $n placeholders; a slot used twice reuses its ordinal.
type Dialect struct{}

// Name returns the dialect name.
func (Dialect) Name() database.SQLDialect { return database.PostgreSQL }

// DriverName returns the registered driver name.
func (Dialect) DriverName() string { return "postgres" }

// Placeholder renders $ordinal.
func (Dialect) Placeholder(slot string, ordinal int) string {
	return placeholder.Dollar(slot, ordinal)
}

// BindStyle reports ordinal binding.
func (Dialect) BindStyle() database.BindStyle { return database.BindByOrdinal }

// ServerVersionQuery returns the server version query.
func (Dialect) ServerVersionQuery() string { return "SHOW server_version" }

// ErrorInfo classifies *pq.Error values by their SQLSTATE.
func (Dialect) ErrorInfo(err error) (database.ErrorInfo, bool) {
	var pe *pq.Error
	if !errors.As(err, &pe) {
		return database.ErrorInfo{}, false
	}
	msg := pe.Message
	if pe.Detail != "" {
		msg += ": " + pe.Detail
	}
	return database.ErrorInfo{
		SQLState: string(pe.Code),
		Code:     7, // PGRES_FATAL_ERROR, the result status libpq reports for failed commands
		Message:  msg,
	}, true
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)

// Ensure Dialect implements database.Dialect.
var _ database.Dialect = Dialect{}
