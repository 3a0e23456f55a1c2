// Package database defines the boundary to the SQL drivers: adapters that own
// a *sql.DB and dialects that describe each driver's parameter syntax and
// error reporting.
package database

import (
	"context"
	"database/sql"
	"time"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// DB returns the connection pool, or nil before Connect.
	DB() *sql.DB

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Dialect returns the dialect of the connected driver.
	Dialect() Dialect
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// BindStyle describes how a driver receives arguments for rewritten slots.
type BindStyle int

const (
	// BindByName passes one sql.Named argument per slot.
	BindByName BindStyle = iota
	// BindByOrdinal passes one argument per slot, in slot order.
	BindByOrdinal
	// BindByOccurrence passes one argument per placeholder occurrence.
	BindByOccurrence
)

// Dialect describes a driver's native parameter syntax and error reporting.
type Dialect interface {
	// Name returns the dialect name.
	Name() SQLDialect

	// DriverName returns the database/sql driver name.
	DriverName() string

	// Placeholder renders the native text for a slot.
	Placeholder(slot string, ordinal int) string

	// BindStyle reports how slot arguments are passed.
	BindStyle() BindStyle

	// ErrorInfo extracts SQLSTATE and driver code from a driver error.
	ErrorInfo(err error) (ErrorInfo, bool)

	// ServerVersionQuery returns a query yielding the server version as one column.
	ServerVersionQuery() string
}

// ErrorInfo is the diagnostic triple reported for a failed operation.
type ErrorInfo struct {
	SQLState string
	Code     int
	Message  string
}

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// DefaultConnectTimeout applies when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

// Timeout returns the connect timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return time.Duration(c.ConnectTimeout) * time.Second
}

// IdleTime returns the idle timeout as a duration.
func (c Config) IdleTime() time.Duration {
	return time.Duration(c.MaxIdleTime) * time.Second
}

// ParseDialect maps a provider name to a dialect name.
func ParseDialect(provider string) (SQLDialect, bool) {
	switch provider {
	case "postgresql", "postgres", "pgsql":
		return PostgreSQL, true
	case "mysql", "mariadb":
		return MySQL, true
	case "sqlite", "sqlite3":
		return SQLite, true
	default:
		return "", false
	}
}
