// Package client provides the connection object that prepares statements.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/adapters/database/mysql"
	"github.com/satishbabariya/pdo-go/adapters/database/postgres"
	"github.com/satishbabariya/pdo-go/adapters/database/sqlite"
	"github.com/satishbabariya/pdo-go/internal/debug"
	"github.com/satishbabariya/pdo-go/query/cache"
	"github.com/satishbabariya/pdo-go/runtime/pdo"
)

// Client is a database connection that prepares statements.
type Client struct {
	adapter     database.Adapter // nil for clients built with NewFromDB
	db          *sql.DB
	dialect     database.Dialect
	attrs       pdo.Attributes
	pending     []pendingAttr
	cache       *cache.Cache
	classes     *pdo.ClassRegistry
	middlewares []Middleware
	log         *slog.Logger
	stmtLog     *slog.Logger
	mu          sync.RWMutex
	closed      bool
}

type pendingAttr struct {
	attr  pdo.Attribute
	value any
}

// Option is a function that configures the client.
type Option func(*Client)

// WithAttribute sets a default statement attribute.
func WithAttribute(attr pdo.Attribute, value any) Option {
	return func(c *Client) {
		c.pending = append(c.pending, pendingAttr{attr: attr, value: value})
	}
}

// WithRewriteCache shares a rewrite cache; by default each client owns one.
func WithRewriteCache(rc *cache.Cache) Option {
	return func(c *Client) {
		c.cache = rc
	}
}

// WithClasses sets the registry used by class-targeted fetches.
func WithClasses(r *pdo.ClassRegistry) Option {
	return func(c *Client) {
		c.classes = r
	}
}

// WithLogger sets the logger for the client and the statements it prepares.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
			c.stmtLog = l
		}
	}
}

// WithMiddleware adds middlewares to every statement the client prepares.
func WithMiddleware(m ...Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, m...)
	}
}

// NewAdapter returns the adapter for config.Provider.
func NewAdapter(config database.Config) (database.Adapter, error) {
	d, ok := database.ParseDialect(config.Provider)
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
	switch d {
	case database.PostgreSQL:
		return postgres.NewPostgresAdapter(config)
	case database.MySQL:
		return mysql.NewMySQLAdapter(config)
	default:
		return sqlite.NewSQLiteAdapter(config)
	}
}

// DialectFor returns the dialect implementation for a provider name.
func DialectFor(provider string) (database.Dialect, error) {
	d, ok := database.ParseDialect(provider)
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	switch d {
	case database.PostgreSQL:
		return postgres.Dialect{}, nil
	case database.MySQL:
		return mysql.Dialect{}, nil
	default:
		return sqlite.Dialect{}, nil
	}
}

// New connects to the database described by config.
func New(ctx context.Context, config database.Config, opts ...Option) (*Client, error) {
	adapter, err := NewAdapter(config)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect %s: %w", config.Provider, err)
	}
	c, err := build(adapter.DB(), adapter.Dialect(), opts)
	if err != nil {
		adapter.Disconnect(ctx)
		return nil, err
	}
	c.adapter = adapter
	c.log.Debug("client connected", "provider", config.Provider)
	return c, nil
}

// NewFromDB wraps an existing pool. Close does not close db.
func NewFromDB(db *sql.DB, dialect database.Dialect, opts ...Option) (*Client, error) {
	if db == nil || dialect == nil {
		return nil, fmt.Errorf("a database and a dialect are required")
	}
	return build(db, dialect, opts)
}

func build(db *sql.DB, dialect database.Dialect, opts []Option) (*Client, error) {
	c := &Client{
		db:      db,
		dialect: dialect,
		attrs:   pdo.DefaultAttributes(),
		classes: pdo.DefaultClasses,
		log:     debug.Component("client"),
		stmtLog: debug.Component("statement"),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, p := range c.pending {
		if err := c.setAttribute(p.attr, p.value); err != nil {
			return nil, err
		}
	}
	c.pending = nil
	if c.cache == nil {
		c.cache = cache.New(cache.DefaultSize, 0)
	}
	return c, nil
}

// Use adds a middleware to the chain
func (c *Client) Use(middleware Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middlewares = append(c.middlewares, middleware)
}

// Prepare prepares a statement carrying the client's attributes, cache,
// classes and middlewares. opts are applied after the client defaults.
func (c *Client) Prepare(ctx context.Context, query string, opts ...pdo.Option) (*pdo.Statement, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, fmt.Errorf("client is closed")
	}
	base := []pdo.Option{
		pdo.WithAttributes(c.attrs),
		pdo.WithRewriteCache(c.cache),
		pdo.WithClasses(c.classes),
		pdo.WithLogger(c.stmtLog),
		pdo.WithInterceptor(c.middlewares...),
	}
	c.mu.RUnlock()

	return pdo.Prepare(ctx, c.db, c.dialect, query, append(base, opts...)...)
}

// Query prepares and executes query. The caller must close the statement.
func (c *Client) Query(ctx context.Context, query string, params ...pdo.Params) (*pdo.Statement, error) {
	s, err := c.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := s.Execute(ctx, params...); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Exec prepares, executes and closes query, returning the affected row count.
func (c *Client) Exec(ctx context.Context, query string, params ...pdo.Params) (int64, error) {
	s, err := c.Prepare(ctx, query)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	if err := s.Execute(ctx, params...); err != nil {
		return 0, err
	}
	return s.RowCount(), nil
}

// SetAttribute sets a default attribute for statements prepared afterwards.
func (c *Client) SetAttribute(attr pdo.Attribute, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAttribute(attr, value)
}

func (c *Client) setAttribute(attr pdo.Attribute, value any) error {
	switch attr {
	case pdo.AttrDriverName, pdo.AttrServerVersion:
		return &pdo.Error{Op: "set attribute", Kind: pdo.ErrUnsupportedAttribute, SQLState: pdo.StateGeneral, Message: "attribute is read-only"}
	}
	next := c.attrs
	if err := next.Set(attr, value); err != nil {
		return err
	}
	c.attrs = next
	return nil
}

// GetAttribute returns a client attribute or a default statement attribute.
func (c *Client) GetAttribute(ctx context.Context, attr pdo.Attribute) (any, error) {
	switch attr {
	case pdo.AttrDriverName:
		return c.dialect.DriverName(), nil
	case pdo.AttrServerVersion:
		v, err := c.ServerVersion(ctx)
		if err != nil {
			return nil, err
		}
		return v.Original(), nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attrs.Get(attr)
}

var leadingVersion = regexp.MustCompile(`^\d+(\.\d+)*`)

// ServerVersion queries the server version.
func (c *Client) ServerVersion(ctx context.Context) (*version.Version, error) {
	var raw string
	if err := c.db.QueryRowContext(ctx, c.dialect.ServerVersionQuery()).Scan(&raw); err != nil {
		return nil, fmt.Errorf("query server version: %w", err)
	}
	v, err := version.NewVersion(leadingVersion.FindString(raw))
	if err != nil {
		return nil, fmt.Errorf("parse server version %q: %w", raw, err)
	}
	return v, nil
}

// RequireServerVersion checks the server version against a constraint such as ">= 3.35".
func (c *Client) RequireServerVersion(ctx context.Context, constraint string) error {
	cs, err := version.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := c.ServerVersion(ctx)
	if err != nil {
		return err
	}
	if !cs.Check(v) {
		return fmt.Errorf("server version %s does not satisfy %s", v, constraint)
	}
	return nil
}

// CacheStats returns rewrite cache statistics.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.GetStats()
}

// Ping checks the database connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Dialect returns the client's dialect.
func (c *Client) Dialect() database.Dialect {
	return c.dialect
}

// Close disconnects clients created by New. It is idempotent.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.adapter == nil {
		return nil
	}
	c.log.Debug("client closing")
	return c.adapter.Disconnect(ctx)
}
