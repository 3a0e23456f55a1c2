package pdo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pdo-go/runtime/types"
)

func TestFetch_Shapes(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()
	s := prepare(t, db, d, "SELECT 1 AS a, NULL AS b")

	t.Run("assoc", func(t *testing.T) {
		require.NoError(t, s.Execute(ctx))
		v, ok := s.Fetch(FetchAssoc, OriNext, 0)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"a": int64(1), "b": nil}, asRow(t, v).Map())
		assert.Equal(t, 2, asRow(t, v).Len())
	})

	t.Run("num", func(t *testing.T) {
		require.NoError(t, s.Execute(ctx))
		v, ok := s.Fetch(FetchNum, OriNext, 0)
		require.True(t, ok)
		r := asRow(t, v)
		assert.Equal(t, []any{int64(1), nil}, r.Slice())
		assert.Empty(t, r.Map())
	})

	t.Run("both", func(t *testing.T) {
		require.NoError(t, s.Execute(ctx))
		v, ok := s.Fetch(FetchBoth, OriNext, 0)
		require.True(t, ok)
		r := asRow(t, v)
		assert.Equal(t, []types.Key{types.Name("a"), types.Index(0), types.Name("b"), types.Index(1)}, r.Keys())
		a, _ := r.Get("a")
		zero, _ := r.At(0)
		assert.Equal(t, int64(1), a)
		assert.Equal(t, int64(1), zero)
	})

	t.Run("obj", func(t *testing.T) {
		require.NoError(t, s.Execute(ctx))
		v, ok := s.Fetch(FetchObj, OriNext, 0)
		require.True(t, ok)
		o, isObj := v.(*types.Object)
		require.True(t, isObj)
		assert.Equal(t, []string{"a", "b"}, o.Props())
	})

	t.Run("default is both", func(t *testing.T) {
		require.NoError(t, s.Execute(ctx))
		v, ok := s.Next()
		require.True(t, ok)
		assert.Equal(t, 4, asRow(t, v).Len())
	})
}

func TestFetch_EndOfDataIsNotAnError(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT name FROM fruit WHERE id = ?")
	require.NoError(t, s.Execute(context.Background(), List{1}))

	_, ok := s.Next()
	require.True(t, ok)

	for i := 0; i < 2; i++ {
		v, ok := s.Next()
		assert.False(t, ok)
		assert.Nil(t, v)
		assert.NoError(t, s.Err())
		assert.Equal(t, StateOK, s.ErrorCode())
	}
	assert.Equal(t, int64(1), s.RowCount())
}

func TestFetch_UnsupportedOrientation(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT name FROM fruit ORDER BY id")
	require.NoError(t, s.Execute(context.Background()))

	_, ok := s.Fetch(FetchAssoc, OriLast, 0)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrUnsupportedCursorOrientation)
	assert.Equal(t, StateNotImplemented, s.ErrorCode())

	// the rejected fetch did not move the cursor
	v, ok := s.FetchColumn(0)
	require.True(t, ok)
	assert.Equal(t, "apple", v)
	assert.NoError(t, s.Err())
}

func TestSetFetchMode_Column(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id, name FROM fruit ORDER BY id")

	err := s.SetFetchMode(FetchColumn)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, StateGeneral, s.ErrorCode())

	require.NoError(t, s.SetFetchMode(FetchColumn, 1))
	require.NoError(t, s.Execute(context.Background()))

	var names []any
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		names = append(names, v)
	}
	assert.NoError(t, s.Err())
	assert.Equal(t, []any{"apple", "banana", "cherry"}, names)
}

func TestSetFetchMode_Validation(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT 1")

	assert.ErrorIs(t, s.SetFetchMode(FetchMode(99)), ErrConfiguration)
	assert.ErrorIs(t, s.SetFetchMode(FetchDefault), ErrConfiguration)
	assert.ErrorIs(t, s.SetFetchMode(FetchColumn, -1), ErrConfiguration)
	assert.ErrorIs(t, s.SetFetchMode(FetchClass), ErrConfiguration)
	assert.ErrorIs(t, s.SetFetchMode(FetchClass, "Nope"), ErrUnknownClass)
	assert.ErrorIs(t, s.SetFetchMode(FetchInto), ErrConfiguration)
	assert.ErrorIs(t, s.SetFetchMode(FetchInto, 3), ErrConfiguration)
	assert.ErrorIs(t, s.SetFetchMode(FetchLazy), ErrUnsupportedFetchShape)
	assert.ErrorIs(t, s.SetFetchMode(FetchNamed), ErrUnsupportedFetchShape)

	// a failed SetFetchMode keeps the previous mode
	require.NoError(t, s.Execute(context.Background()))
	v, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, 2, asRow(t, v).Len())
}

func TestFetch_PerCallUnsupportedShape(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT 1")
	require.NoError(t, s.Execute(context.Background()))

	_, ok := s.Fetch(FetchLazy, OriNext, 0)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrUnsupportedFetchShape)
}

func TestFetchColumn_OutOfRange(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id, name FROM fruit")
	require.NoError(t, s.Execute(context.Background()))

	_, ok := s.FetchColumn(2)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrColumnOutOfRange)
	assert.Equal(t, StateInvalidDescriptor, s.ErrorCode())
}

func TestFetchAll(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()
	s := prepare(t, db, d, "SELECT id, name, note FROM fruit ORDER BY id")

	require.NoError(t, s.Execute(ctx))
	rows, err := s.FetchAll(FetchAssoc)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, map[string]any{"id": int64(2), "name": "banana", "note": "ripe"}, asRow(t, rows[1]).Map())
	assert.Equal(t, int64(3), s.RowCount())

	require.NoError(t, s.Execute(ctx))
	names, err := s.FetchAll(FetchColumn, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"apple", "banana", "cherry"}, names)

	// the per-call mode did not replace the configured one
	require.NoError(t, s.Execute(ctx))
	rows, err = s.FetchAll(FetchDefault)
	require.NoError(t, err)
	assert.Equal(t, 6, asRow(t, rows[0]).Len())

	_, err = s.FetchAll(FetchColumn)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFetchAll_Empty(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id FROM fruit WHERE id > 100")
	require.NoError(t, s.Execute(context.Background()))

	rows, err := s.FetchAll(FetchNum)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFetch_AttrCase(t *testing.T) {
	db, d := newDB(t)
	ctx := context.Background()
	s := prepare(t, db, d, "SELECT id AS Id, name AS Name FROM fruit WHERE id = 1",
		WithAttribute(AttrCase, CaseLower))

	require.NoError(t, s.Execute(ctx))
	v, ok := s.Fetch(FetchAssoc, OriNext, 0)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "apple"}, asRow(t, v).Map())

	require.NoError(t, s.SetAttribute(AttrCase, "upper"))
	require.NoError(t, s.Execute(ctx))
	meta, ok := s.GetColumnMeta(1)
	require.True(t, ok)
	assert.Equal(t, "NAME", meta.Name)
}

func TestFetch_StringifyFetches(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id, calories_per_serving, note FROM fruit WHERE id = 1",
		WithAttribute(AttrStringifyFetches, true))
	require.NoError(t, s.Execute(context.Background()))

	v, ok := s.Fetch(FetchNum, OriNext, 0)
	require.True(t, ok)
	assert.Equal(t, []any{"1", "95", nil}, asRow(t, v).Slice())
}

func TestBindColumn(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id, name, note FROM fruit ORDER BY id")

	var (
		id   int
		name string
		note *string
	)
	require.NoError(t, s.BindColumn(1, &id))
	require.NoError(t, s.BindColumn("name", &name))
	require.NoError(t, s.BindColumn("note", &note))
	require.NoError(t, s.SetFetchMode(FetchBound))
	require.NoError(t, s.Execute(context.Background()))

	v, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, true, v)
	assert.Equal(t, 1, id)
	assert.Equal(t, "apple", name)
	assert.Nil(t, note)

	_, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, 2, id)
	assert.Equal(t, "banana", name)
	require.NotNil(t, note)
	assert.Equal(t, "ripe", *note)

	assert.ErrorIs(t, s.BindColumn(0, &id), ErrColumnOutOfRange)
	assert.ErrorIs(t, s.BindColumn("id", id), ErrConfiguration)
}

func TestBindColumn_UnknownName(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id FROM fruit")

	var x int
	require.NoError(t, s.BindColumn("missing", &x))
	require.NoError(t, s.Execute(context.Background()))

	_, ok := s.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), ErrColumnOutOfRange)
}

func TestColumnMeta(t *testing.T) {
	db, d := newDB(t)
	s := prepare(t, db, d, "SELECT id, name FROM fruit")

	_, ok := s.GetColumnMeta(0)
	assert.False(t, ok)
	assert.Zero(t, s.ColumnCount())

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, 2, s.ColumnCount())

	meta, ok := s.GetColumnMeta(0)
	require.True(t, ok)
	assert.Equal(t, "id", meta.Name)
	assert.Equal(t, "INTEGER", meta.DeclType)
	assert.Equal(t, 0, meta.Index)

	meta, ok = s.GetColumnMeta(1)
	require.True(t, ok)
	assert.Equal(t, "TEXT", meta.DeclType)

	_, ok = s.GetColumnMeta(2)
	assert.False(t, ok)
	_, ok = s.GetColumnMeta(-1)
	assert.False(t, ok)

	// metadata survives exhaustion of the cursor
	_, err := s.FetchAll(FetchNum)
	require.NoError(t, err)
	assert.Equal(t, 2, s.ColumnCount())

	assert.False(t, s.NextRowset())
}
