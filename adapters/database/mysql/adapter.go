// Package mysql implements MySQL database adapter.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/query/placeholder"
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	db     *sql.DB
	config database.Config
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) (*MySQLAdapter, error) {
	return &MySQLAdapter{
		config: config,
	}, nil
}

// ParseURL accepts either a driver DSN or a mysql:// URL and returns the driver config.
// Times are decoded into time.Time.
func ParseURL(url string) (*mysql.Config, error) {
	dsn := strings.TrimPrefix(url, "mysql://")
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg, nil
}

// Connect establishes a connection to the MySQL database.
func (a *MySQLAdapter) Connect(ctx context.Context) error {
	cfg, err := ParseURL(a.config.URL)
	if err != nil {
		return err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return fmt.Errorf("failed to create connector: %w", err)
	}
	db := sql.OpenDB(connector)

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
func (a *MySQLAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// DB returns the connection pool.
func (a *MySQLAdapter) DB() *sql.DB {
	return a.db
}

// Ping checks if the database connection is alive.
func (a *MySQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return a.db.PingContext(ctx)
}

// Dialect returns the MySQL dialect.
func (a *MySQLAdapter) Dialect() database.Dialect {
	return Dialect{}
}

// Dialect renders ? placeholders, so arguments are passed per occurrence.
type Dialect struct{}

// Name returns the dialect name.
func (Dialect) Name() database.SQLDialect { return database.MySQL }

// DriverName returns the registered driver name.
func (Dialect) DriverName() string { return "mysql" }

// Placeholder renders ?.
func (Dialect) Placeholder(slot string, ordinal int) string {
	return placeholder.Question(slot, ordinal)
}

// BindStyle reports per-occurrence binding.
func (Dialect) BindStyle() database.BindStyle { return database.BindByOccurrence }

// ServerVersionQuery returns the server version query.
func (Dialect) ServerVersionQuery() string { return "SELECT VERSION()" }

// ErrorInfo classifies *mysql.MySQLError values.
func (Dialect) ErrorInfo(err error) (database.ErrorInfo, bool) {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return database.ErrorInfo{}, false
	}
	state := string(me.SQLState[:])
	if me.SQLState == [5]byte{} {
		state = "HY000"
	}
	return database.ErrorInfo{
		SQLState: state,
		Code:     int(me.Number),
		Message:  me.Message,
	}, true
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)

// Ensure Dialect implements database.Dialect.
var _ database.Dialect = Dialect{}
