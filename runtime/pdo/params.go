package pdo

import (
	"database/sql"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/spf13/cast"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/runtime/types"
)

// Params is a bulk parameter set accepted by Execute and BindValues.
type Params interface {
	each(fn func(designator, value any) error) error
}

// Named binds values by parameter name; a leading colon is optional.
type Named map[string]any

func (n Named) each(fn func(designator, value any) error) error {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := fn(name, n[name]); err != nil {
			return err
		}
	}
	return nil
}

// List binds values to positions 1..len(List).
type List []any

func (l List) each(fn func(designator, value any) error) error {
	for i, v := range l {
		if err := fn(i+1, v); err != nil {
			return err
		}
	}
	return nil
}

type binding struct {
	designator any
	value      any
	ref        reflect.Value // set by BindParam
	typ        ParamType
}

func (b *binding) current() any {
	if !b.ref.IsValid() {
		return b.value
	}
	if b.ref.IsNil() {
		return nil
	}
	return b.ref.Elem().Interface()
}

// BindValue binds value to a 1-based position or a parameter name. The value
// keeps its Go type unless typ says otherwise or AttrStringifyParams is set.
func (s *Statement) BindValue(designator any, value any, typ ...ParamType) error {
	slot, err := s.resolveParam("bind value", designator)
	if err != nil {
		return s.fail(err)
	}
	s.bindings[slot] = &binding{designator: designator, value: value, typ: paramType(typ)}
	return nil
}

// BindParam binds a pointer; the pointed-to value is read at every Execute.
func (s *Statement) BindParam(designator any, ptr any, typ ...ParamType) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return s.fail(newError("bind param", ErrConfiguration, StateInvalidParamType, "BindParam needs a non-nil pointer, got %T", ptr))
	}
	slot, err := s.resolveParam("bind param", designator)
	if err != nil {
		return s.fail(err)
	}
	s.bindings[slot] = &binding{designator: designator, ref: rv, typ: paramType(typ)}
	return nil
}

// BindValues binds a parameter set. Nothing is bound if any designator is unknown.
func (s *Statement) BindValues(params Params) error {
	if params == nil {
		return nil
	}
	staged := make(map[string]*binding)
	err := params.each(func(designator, value any) error {
		slot, err := s.resolveParam("bind values", designator)
		if err != nil {
			return err
		}
		staged[slot] = &binding{designator: designator, value: value}
		return nil
	})
	if err != nil {
		return s.fail(err)
	}
	for slot, b := range staged {
		s.bindings[slot] = b
	}
	return nil
}

func paramType(typ []ParamType) ParamType {
	if len(typ) == 0 {
		return ParamAuto
	}
	return typ[0]
}

func (s *Statement) resolveParam(op string, designator any) (string, error) {
	if s.state == stateClosed {
		return "", newError(op, ErrStatementClosed, StateGeneral, "statement is closed")
	}
	var (
		slot string
		ok   bool
	)
	switch d := designator.(type) {
	case string:
		slot, ok = s.cmd.Named(d)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		slot, ok = s.cmd.Positional(cast.ToInt(d))
	}
	if !ok {
		return "", newError(op, ErrUnknownParameter, StateInvalidParameter, "parameter %v is not defined in %s template", designator, s.cmd.Mode)
	}
	return slot, nil
}

// args renders bound values in the order the dialect expects.
func (s *Statement) args() ([]any, error) {
	values := make(map[string]any, len(s.cmd.Slots))
	for _, slot := range s.cmd.Slots {
		b, ok := s.bindings[slot]
		if !ok {
			name := s.cmd.ParameterName(slot)
			if name == "" {
				name = fmt.Sprintf("position %d", s.cmd.Ordinal(slot))
			}
			return nil, newError("execute", ErrUnboundParameter, StateInvalidParameter, "no value bound for %s", name)
		}
		v, err := coerce(b.current(), b.typ, s.attrs.StringifyParams)
		if err != nil {
			return nil, &Error{Op: "execute", Kind: ErrConfiguration, SQLState: StateInvalidParamType, Message: fmt.Sprintf("parameter %v as %s", b.designator, b.typ), Cause: err}
		}
		values[slot] = v
	}

	switch s.dialect.BindStyle() {
	case database.BindByName:
		args := make([]any, 0, len(s.cmd.Slots))
		for _, slot := range s.cmd.Slots {
			args = append(args, sql.Named(slot, values[slot]))
		}
		return args, nil
	case database.BindByOccurrence:
		args := make([]any, 0, len(s.cmd.Occurrences))
		for _, slot := range s.cmd.Occurrences {
			args = append(args, values[slot])
		}
		return args, nil
	default:
		args := make([]any, 0, len(s.cmd.Slots))
		for _, slot := range s.cmd.Slots {
			args = append(args, values[slot])
		}
		return args, nil
	}
}

// coerce converts a bound value for the driver according to its declared type.
func coerce(v any, typ ParamType, stringify bool) (any, error) {
	if v == nil || typ == ParamNull {
		return nil, nil
	}
	var err error
	switch typ {
	case ParamAuto:
		if d, ok := v.(types.Decimal); ok {
			v = d.String()
		}
	case ParamInt:
		v, err = cast.ToInt64E(numeric(v))
	case ParamStr:
		v, err = cast.ToStringE(types.Stringify(v))
	case ParamBool:
		v, err = cast.ToBoolE(v)
	case ParamLOB:
		switch x := v.(type) {
		case []byte:
			return x, nil
		case string:
			return []byte(x), nil
		case io.Reader:
			return io.ReadAll(x)
		default:
			return nil, fmt.Errorf("cannot send %T as a LOB", v)
		}
	default:
		return nil, fmt.Errorf("unknown parameter type %d", int(typ))
	}
	if err != nil {
		return nil, err
	}
	if stringify {
		return types.Stringify(v), nil
	}
	return v, nil
}
