package pdo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/adapters/database/sqlite"
	"github.com/satishbabariya/pdo-go/runtime/types"
)

// newDB opens an in-memory SQLite database seeded with a fruit table.
func newDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()
	ctx := context.Background()

	a, err := sqlite.NewSQLiteAdapter(database.Config{URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx))
	t.Cleanup(func() { a.Disconnect(ctx) })

	db := a.DB()
	_, err = db.ExecContext(ctx, `CREATE TABLE fruit (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		calories_per_serving INTEGER,
		note TEXT
	)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO fruit (id, name, calories_per_serving, note) VALUES
		(1, 'apple', 95, NULL),
		(2, 'banana', 105, 'ripe'),
		(3, 'cherry', 50, NULL)`)
	require.NoError(t, err)

	return db, a.Dialect()
}

func prepare(t *testing.T, db *sql.DB, d database.Dialect, query string, opts ...Option) *Statement {
	t.Helper()
	s, err := Prepare(context.Background(), db, d, query, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func asRow(t *testing.T, v any) *types.Row {
	t.Helper()
	r, ok := v.(*types.Row)
	require.True(t, ok, "expected *types.Row, got %T", v)
	return r
}
