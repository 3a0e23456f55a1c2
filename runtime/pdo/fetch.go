package pdo

import (
	"reflect"

	"github.com/spf13/cast"

	"github.com/satishbabariya/pdo-go/runtime/types"
)

// SetFetchMode sets the mode used by Fetch, Next and FetchAll with
// FetchDefault. FetchColumn takes a zero-based column index, FetchClass a
// class name followed by constructor arguments, FetchInto a target pointer.
func (s *Statement) SetFetchMode(mode FetchMode, args ...any) error {
	cfg, err := s.fetchConfigFor("set fetch mode", mode, args)
	if err != nil {
		return s.fail(err)
	}
	s.fetch = cfg
	return nil
}

func (s *Statement) fetchConfigFor(op string, mode FetchMode, args []any) (fetchConfig, error) {
	cfg := fetchConfig{mode: mode}
	if mode == FetchDefault || !mode.Valid() {
		return cfg, newError(op, ErrConfiguration, StateGeneral, "unknown fetch mode %s", mode)
	}
	switch mode {
	case FetchColumn:
		if len(args) == 0 {
			return cfg, newError(op, ErrConfiguration, StateGeneral, "fetch mode column requires a column index")
		}
		col, err := cast.ToIntE(args[0])
		if err != nil || col < 0 {
			return cfg, newError(op, ErrConfiguration, StateGeneral, "invalid column index %v", args[0])
		}
		cfg.column = col
	case FetchClass:
		if len(args) == 0 {
			return cfg, newError(op, ErrConfiguration, StateGeneral, "fetch mode class requires a class name")
		}
		name, ok := args[0].(string)
		if !ok || name == "" {
			return cfg, newError(op, ErrConfiguration, StateGeneral, "invalid class name %v", args[0])
		}
		if !s.classes.Has(name) {
			return cfg, newError(op, ErrUnknownClass, StateGeneral, "class %q is not registered", name)
		}
		cfg.class = name
		cfg.ctorArgs = append([]any(nil), args[1:]...)
	case FetchInto:
		if len(args) == 0 {
			return cfg, newError(op, ErrConfiguration, StateGeneral, "fetch mode into requires a target object")
		}
		if err := checkTarget(args[0]); err != nil {
			return cfg, err
		}
		cfg.into = args[0]
	case FetchLazy, FetchNamed:
		return cfg, newError(op, ErrUnsupportedFetchShape, StateNotImplemented, "fetch mode %s has no projection", mode)
	}
	return cfg, nil
}

// Fetch advances the cursor one row and projects it. mode FetchDefault uses
// the configured mode. Only OriNext is supported and offset is ignored.
//
// Fetch returns false at the end of the result and on failure; Err and
// ErrorCode tell the two apart.
func (s *Statement) Fetch(mode FetchMode, orientation Orientation, offset int) (any, bool) {
	cfg := s.fetch
	if mode != FetchDefault {
		cfg.mode = mode
		if mode == FetchColumn && s.fetch.mode != FetchColumn {
			cfg.column = 0
		}
	}
	return s.fetchWith(cfg, orientation)
}

// Next fetches the next row in the configured mode.
func (s *Statement) Next() (any, bool) {
	return s.Fetch(FetchDefault, OriNext, 0)
}

// FetchColumn returns one zero-based column of the next row.
func (s *Statement) FetchColumn(column int) (any, bool) {
	return s.fetchWith(fetchConfig{mode: FetchColumn, column: column}, OriNext)
}

// FetchObject returns the next row as an instance of class, or as a
// *types.Object when class is empty.
func (s *Statement) FetchObject(class string, ctorArgs ...any) (any, bool) {
	if class == "" {
		return s.fetchWith(fetchConfig{mode: FetchObj}, OriNext)
	}
	return s.fetchWith(fetchConfig{mode: FetchClass, class: class, ctorArgs: ctorArgs}, OriNext)
}

// FetchAll fetches the remaining rows. With FetchDefault the configured mode
// is used; otherwise args are interpreted as in SetFetchMode for this call only.
func (s *Statement) FetchAll(mode FetchMode, args ...any) ([]any, error) {
	cfg := s.fetch
	if mode != FetchDefault {
		var err error
		if cfg, err = s.fetchConfigFor("fetch all", mode, args); err != nil {
			return nil, s.fail(err)
		}
	}
	out := make([]any, 0)
	for {
		v, ok := s.fetchWith(cfg, OriNext)
		if !ok {
			break
		}
		out = append(out, v)
	}
	if s.err != nil {
		return out, s.err
	}
	return out, nil
}

// FetchAllAs fetches the remaining rows into values of T, which must be a
// struct type or map[string]any.
func FetchAllAs[T any](s *Statement) ([]T, error) {
	out := make([]T, 0)
	for {
		v, ok := s.fetchWith(fetchConfig{mode: FetchAssoc}, OriNext)
		if !ok {
			break
		}
		row := v.(*types.Row)
		var item T
		if m, ok := any(&item).(*map[string]any); ok {
			*m = row.Map()
		} else if err := hydrate(&item, row); err != nil {
			return out, s.fail(err)
		}
		out = append(out, item)
	}
	return out, s.err
}

func (s *Statement) fetchWith(cfg fetchConfig, orientation Orientation) (any, bool) {
	v, ok, err := s.fetchRow(cfg, orientation)
	if err != nil {
		s.fail(err)
		s.log.Warn("fetch failed", "mode", cfg.mode.String(), "error", err)
		return nil, false
	}
	s.succeed()
	return v, ok
}

func (s *Statement) fetchRow(cfg fetchConfig, orientation Orientation) (any, bool, error) {
	switch {
	case s.state == stateClosed:
		return nil, false, newError("fetch", ErrStatementClosed, StateGeneral, "statement is closed")
	case orientation != OriNext:
		return nil, false, newError("fetch", ErrUnsupportedCursorOrientation, StateNotImplemented, "only forward fetches are supported")
	case cfg.mode == FetchLazy || cfg.mode == FetchNamed || !cfg.mode.Valid():
		return nil, false, newError("fetch", ErrUnsupportedFetchShape, StateNotImplemented, "fetch mode %s has no projection", cfg.mode)
	case cfg.mode == FetchClass && !s.classes.Has(cfg.class):
		return nil, false, newError("fetch", ErrUnknownClass, StateGeneral, "class %q is not registered", cfg.class)
	case cfg.mode == FetchInto && cfg.into == nil:
		return nil, false, newError("fetch", ErrConfiguration, StateGeneral, "fetch mode into requires a target object")
	case s.state != stateExecuted:
		return nil, false, newError("fetch", ErrNoCursor, StateFunctionSequence, "statement has not been executed")
	case s.cur == nil:
		return nil, false, nil
	}

	if err := s.cur.describe(); err != nil {
		return nil, false, s.driverError("fetch", err)
	}
	if !s.cur.rows.Next() {
		if err := s.cur.rows.Err(); err != nil {
			return nil, false, s.driverError("fetch", err)
		}
		return nil, false, nil
	}
	raw, err := s.cur.scan()
	if err != nil {
		return nil, false, s.driverError("fetch", err)
	}
	vals := make([]any, len(raw))
	for i, v := range raw {
		vals[i] = types.FromDriver(v, s.cur.dbType(i), s.attrs.StringifyFetches)
	}
	s.rowCount++

	names := s.columnNames()
	if err := s.refreshBound(names, vals); err != nil {
		return nil, false, err
	}
	v, err := s.project(names, vals, cfg)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

type boundColumn struct {
	column any
	dst    reflect.Value
}

// BindColumn binds a 1-based column number or a column name to ptr. Every
// successful fetch stores the column value into ptr.
func (s *Statement) BindColumn(column any, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return s.fail(newError("bind column", ErrConfiguration, StateGeneral, "BindColumn needs a non-nil pointer, got %T", ptr))
	}
	switch c := column.(type) {
	case string:
		if c == "" {
			return s.fail(newError("bind column", ErrColumnOutOfRange, StateInvalidDescriptor, "empty column name"))
		}
	case int:
		if c < 1 {
			return s.fail(newError("bind column", ErrColumnOutOfRange, StateInvalidDescriptor, "column numbers start at 1, got %d", c))
		}
	default:
		return s.fail(newError("bind column", ErrConfiguration, StateGeneral, "column must be a name or a number, got %T", column))
	}
	s.bound = append(s.bound, boundColumn{column: column, dst: rv.Elem()})
	return nil
}

func (s *Statement) refreshBound(names []string, vals []any) error {
	for _, b := range s.bound {
		idx := -1
		switch c := b.column.(type) {
		case int:
			idx = c - 1
		case string:
			for i, n := range names {
				if n == c {
					idx = i
					break
				}
			}
		}
		if idx < 0 || idx >= len(vals) {
			return newError("fetch", ErrColumnOutOfRange, StateInvalidDescriptor, "bound column %v does not exist", b.column)
		}
		if err := assignValue(b.dst, vals[idx]); err != nil {
			return &Error{Op: "fetch", Kind: ErrConfiguration, SQLState: StateGeneral, Message: "bound column", Cause: err}
		}
	}
	return nil
}
