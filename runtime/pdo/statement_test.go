package pdo

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pdo-go/query/cache"
)

func TestPrepare_MixedPlaceholderStyle(t *testing.T) {
	db, d := newDB(t)

	s, err := Prepare(context.Background(), db, d, "SELECT * FROM fruit WHERE id = ? AND name = :name")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrMixedPlaceholderStyle)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, StateInvalidParameter, e.SQLState)
	assert.Equal(t, "prepare", e.Op)
}

func TestPrepare_MalformedTemplate(t *testing.T) {
	db, d := newDB(t)

	_, err := Prepare(context.Background(), db, d, "SELECT * FROM fruit WHERE name = 'apple")
	assert.ErrorIs(t, err, ErrMalformedTemplate)
}

func TestPrepare_DriverRejectsSQL(t *testing.T) {
	db, d := newDB(t)

	_, err := Prepare(context.Background(), db, d, "SELEC name FROM fruit")
	require.Error(t, err)
	assert.True(t, IsExecution(err))
}

func TestPrepare_RequiresCollaborators(t *testing.T) {
	_, err := Prepare(context.Background(), nil, nil, "SELECT 1")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestPrepare_QuotedPlaceholdersAreLiteral(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	s := prepare(t, db, d, "SELECT '?:not_a_param' AS v")
	assert.Zero(t, s.Command().SlotCount())
	require.NoError(t, s.Execute(ctx))

	v, ok := s.FetchColumn(0)
	require.True(t, ok)
	assert.Equal(t, "?:not_a_param", v)
}

func TestExecute_DriverFailureIsReusable(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	s := prepare(t, db, d, "INSERT INTO fruit (name) VALUES (:name)")
	require.NoError(t, s.BindValue(":name", "apple"))

	err := s.Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatementExecution)
	assert.Equal(t, "23000", s.ErrorCode())
	assert.Contains(t, s.ErrorInfo().Message, "UNIQUE")
	assert.Equal(t, err, s.Err())

	require.NoError(t, s.BindValue("name", "durian"))
	require.NoError(t, s.Execute(ctx))
	assert.Equal(t, StateOK, s.ErrorCode())
	assert.Equal(t, int64(1), s.RowCount())
	assert.NoError(t, s.Err())
}

func TestExecute_NonQueryHasNoRows(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	s := prepare(t, db, d, "UPDATE fruit SET note = ? WHERE calories_per_serving < ?")
	require.NoError(t, s.Execute(ctx, List{"light", 100}))
	assert.Equal(t, int64(2), s.RowCount())
	assert.Zero(t, s.ColumnCount())

	v, ok := s.Next()
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.NoError(t, s.Err())
}

func TestExecute_ReturningProducesRows(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	s := prepare(t, db, d, "INSERT INTO fruit (name) VALUES (:name) RETURNING id")
	require.NoError(t, s.Execute(ctx, Named{"name": "fig"}))

	id, ok := s.FetchColumn(0)
	require.True(t, ok)
	assert.Equal(t, int64(4), id)
}

func TestExecute_ClosesPreviousCursor(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	s := prepare(t, db, d, "SELECT name FROM fruit ORDER BY id")
	require.NoError(t, s.Execute(ctx))
	_, ok := s.Next()
	require.True(t, ok)

	require.NoError(t, s.Execute(ctx))
	v, ok := s.Fetch(FetchNum, OriNext, 0)
	require.True(t, ok)
	assert.Equal(t, []any{"apple"}, asRow(t, v).Slice())
	assert.Equal(t, int64(1), s.RowCount())
}

func TestCloseCursor_TrueThenFalse(t *testing.T) {
	db, d := newDB(t)

	s := prepare(t, db, d, "SELECT name FROM fruit")
	assert.False(t, s.CloseCursor())
	require.NoError(t, s.Execute(context.Background()))

	assert.True(t, s.CloseCursor())
	assert.False(t, s.CloseCursor())

	_, ok := s.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrNoCursor)
	assert.Equal(t, StateFunctionSequence, s.ErrorCode())
}

func TestClose_WithOpenCursor(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	s, err := Prepare(ctx, db, d, "SELECT name FROM fruit")
	require.NoError(t, err)
	require.NoError(t, s.Execute(ctx))
	_, ok := s.Next()
	require.True(t, ok)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	assert.ErrorIs(t, s.Execute(ctx), ErrStatementClosed)
	assert.ErrorIs(t, s.BindValue(1, "x"), ErrStatementClosed)
	_, ok = s.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrStatementClosed)

	// the single connection is free again
	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM fruit").Scan(&n))
	assert.Equal(t, 3, n)
}

func TestClose_ZeroStatement(t *testing.T) {
	var s *Statement
	assert.NoError(t, s.Close())
	assert.NoError(t, (&Statement{}).Close())
}

func TestStatement_ErrorCodeBeforeAnyOperation(t *testing.T) {
	db, d := newDB(t)

	s := prepare(t, db, d, "SELECT 1")
	assert.Equal(t, "", s.ErrorCode())
	assert.Equal(t, "SELECT 1", s.QueryString())
}

func TestStatement_Interceptors(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()

	var order []string
	var seen *QueryEvent
	first := func(ctx context.Context, ev *QueryEvent, next func() error) error {
		order = append(order, "first")
		return next()
	}
	second := func(ctx context.Context, ev *QueryEvent, next func() error) error {
		order = append(order, "second")
		err := next()
		seen = ev
		return err
	}

	s := prepare(t, db, d, "DELETE FROM fruit WHERE id = :id", WithInterceptor(first, second))
	require.NoError(t, s.Execute(ctx, Named{":id": 1}))

	assert.Equal(t, []string{"first", "second"}, order)
	require.NotNil(t, seen)
	assert.Equal(t, "DELETE FROM fruit WHERE id = @id", seen.SQL)
	assert.Equal(t, "DELETE FROM fruit WHERE id = :id", seen.Query)
	assert.Equal(t, int64(1), seen.RowsAffected)
	assert.NoError(t, seen.Error)
	assert.False(t, seen.End.Before(seen.Start))
}

func TestStatement_InterceptorErrorFailsExecute(t *testing.T) {
	db, d := newDB(t)

	deny := func(ctx context.Context, ev *QueryEvent, next func() error) error {
		return errors.New("denied")
	}
	s := prepare(t, db, d, "DELETE FROM fruit", WithInterceptor(deny))

	err := s.Execute(context.Background())
	assert.ErrorIs(t, err, ErrStatementExecution)
	assert.Equal(t, StateGeneral, s.ErrorCode())
}

func TestStatement_RewriteCache(t *testing.T) {
	db, d := newDB(t)
	c := cache.New(4, 0)

	a := prepare(t, db, d, "SELECT name FROM fruit WHERE id = ?", WithRewriteCache(c))
	b := prepare(t, db, d, "SELECT name FROM fruit WHERE id = ?", WithRewriteCache(c))

	assert.Same(t, a.Command(), b.Command())
	assert.Equal(t, int64(1), c.GetStats().Hits)
}

func TestDebugDumpParams(t *testing.T) {
	db, d := newDB(t)

	s := prepare(t, db, d, "SELECT name FROM fruit WHERE name = :name AND calories_per_serving < :cal")
	require.NoError(t, s.BindValue("name", "apple"))
	require.NoError(t, s.BindValue(":cal", 100))

	var buf bytes.Buffer
	require.NoError(t, s.DebugDumpParams(&buf))
	out := buf.String()

	assert.Contains(t, out, "SQL: [73] SELECT name FROM fruit WHERE name = :name AND calories_per_serving < :cal\n")
	assert.Contains(t, out, "Sent SQL: [73] SELECT name FROM fruit WHERE name = @name AND calories_per_serving < @cal\n")
	assert.Contains(t, out, "Params:  2\n")
	assert.Contains(t, out, "Key: Name: [5] :name\nparamno=-1\nname=[5] \":name\"\nis_param=1\nparam_type=2\n")
	assert.Contains(t, out, "Key: Name: [4] :cal\nparamno=-1\nname=[4] \":cal\"\nis_param=1\nparam_type=1\n")
}

func TestDebugDumpParams_Positional(t *testing.T) {
	db, d := newDB(t)

	s := prepare(t, db, d, "SELECT ? , ?")
	require.NoError(t, s.BindValue(2, nil))

	var buf bytes.Buffer
	require.NoError(t, s.DebugDumpParams(&buf))
	assert.Contains(t, buf.String(), "Params:  1\nKey: Position #1:\nparamno=1\nname=[0] \"\"\nis_param=1\nparam_type=0\n")
}

func TestExecute_KeywordInsideLiteral(t *testing.T) {
	db, d := newDB(t)

	s := prepare(t, db, d, "UPDATE fruit SET note = 'returning soon' WHERE id IN (1, 2)")
	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, int64(2), s.RowCount())
	assert.Zero(t, s.ColumnCount())
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT 1", true},
		{"  select 1", true},
		{"-- note\nSELECT 1", true},
		{"/* hint */ WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"PRAGMA table_info(fruit)", true},
		{"INSERT INTO t VALUES (1)", false},
		{"INSERT INTO t VALUES (1) RETURNING id", true},
		{"UPDATE t SET a = 1", false},
		{"UPDATE fruit SET note = 'returning soon' WHERE id IN (1, 2)", false},
		{"UPDATE fruit SET note = 'x' RETURNING id", true},
		{"CREATE TABLE t (a INT)", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, returnsRows(tt.query), tt.query)
	}
}
