package pdo

import (
	"github.com/satishbabariya/pdo-go/runtime/types"
)

type fetchConfig struct {
	mode     FetchMode
	column   int
	class    string
	ctorArgs []any
	into     any
}

// columnNames returns the cursor's names with AttrCase applied.
func (s *Statement) columnNames() []string {
	names := make([]string, len(s.cur.names))
	for i, n := range s.cur.names {
		names[i] = applyCase(s.attrs.Case, n)
	}
	return names
}

func assocRow(names []string, vals []any) *types.Row {
	r := types.NewRow(len(vals))
	for i, v := range vals {
		r.Set(types.Name(names[i]), v)
	}
	return r
}

func numRow(vals []any) *types.Row {
	r := types.NewRow(len(vals))
	for i, v := range vals {
		r.Set(types.Index(i), v)
	}
	return r
}

func bothRow(names []string, vals []any) *types.Row {
	r := types.NewRow(2 * len(vals))
	for i, v := range vals {
		r.Set(types.Name(names[i]), v)
		r.Set(types.Index(i), v)
	}
	return r
}

// project shapes one converted row according to cfg.
func (s *Statement) project(names []string, vals []any, cfg fetchConfig) (any, error) {
	switch cfg.mode {
	case FetchAssoc:
		return assocRow(names, vals), nil
	case FetchNum:
		return numRow(vals), nil
	case FetchBoth:
		return bothRow(names, vals), nil
	case FetchObj:
		return types.NewObject(assocRow(names, vals)), nil
	case FetchColumn:
		v, ok := numRow(vals).At(cfg.column)
		if !ok {
			return nil, newError("fetch", ErrColumnOutOfRange, StateInvalidDescriptor, "column %d does not exist in a %d-column result", cfg.column, len(vals))
		}
		return v, nil
	case FetchClass:
		obj, err := s.classes.New(cfg.class, cfg.ctorArgs...)
		if err != nil {
			return nil, err
		}
		if err := hydrate(obj, assocRow(names, vals)); err != nil {
			return nil, &Error{Op: "fetch", Kind: ErrConfiguration, SQLState: StateGeneral, Message: "class " + cfg.class, Cause: err}
		}
		return obj, nil
	case FetchInto:
		if err := hydrate(cfg.into, assocRow(names, vals)); err != nil {
			return nil, &Error{Op: "fetch", Kind: ErrConfiguration, SQLState: StateGeneral, Cause: err}
		}
		return cfg.into, nil
	case FetchBound:
		return true, nil
	default:
		return nil, newError("fetch", ErrUnsupportedFetchShape, StateNotImplemented, "fetch mode %s has no projection", cfg.mode)
	}
}
