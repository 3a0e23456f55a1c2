package pdo

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"

	"github.com/satishbabariya/pdo-go/runtime/types"
)

// Constructor builds a class instance from constructor arguments. It must
// return a non-nil pointer to a struct or a *types.Object.
type Constructor func(args ...any) (any, error)

// Constructable is implemented by registered types that accept constructor
// arguments. Construct runs before columns are assigned.
type Constructable interface {
	Construct(args ...any) error
}

// ClassRegistry maps class names to constructors for FetchClass.
// A ClassRegistry is safe for concurrent use.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]Constructor
}

// NewClassRegistry creates an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]Constructor)}
}

// DefaultClasses is used by statements prepared without WithClasses.
var DefaultClasses = NewClassRegistry()

// RegisterClass registers ctor under name, replacing any previous entry.
func (r *ClassRegistry) RegisterClass(name string, ctor Constructor) error {
	if name == "" || ctor == nil {
		return newError("register class", ErrConfiguration, StateGeneral, "class name and constructor are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[name] = ctor
	return nil
}

// RegisterType registers struct type T under name. Constructor arguments are
// passed to Construct when *T implements Constructable and rejected otherwise.
func RegisterType[T any](r *ClassRegistry, name string) error {
	if reflect.TypeOf((*T)(nil)).Elem().Kind() != reflect.Struct {
		return newError("register class", ErrConfiguration, StateGeneral, "%s is not a struct type", reflect.TypeOf((*T)(nil)).Elem())
	}
	return r.RegisterClass(name, func(args ...any) (any, error) {
		v := new(T)
		if c, ok := any(v).(Constructable); ok {
			if err := c.Construct(args...); err != nil {
				return nil, err
			}
		} else if len(args) > 0 {
			return nil, fmt.Errorf("%s takes no constructor arguments", name)
		}
		return v, nil
	})
}

// Has reports whether name is registered.
func (r *ClassRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[name]
	return ok
}

// New constructs an instance of the named class.
func (r *ClassRegistry) New(name string, args ...any) (any, error) {
	r.mu.RLock()
	ctor, ok := r.classes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, newError("construct", ErrUnknownClass, StateGeneral, "class %q is not registered", name)
	}
	obj, err := ctor(args...)
	if err != nil {
		return nil, &Error{Op: "construct", Kind: ErrConfiguration, SQLState: StateGeneral, Message: fmt.Sprintf("class %q", name), Cause: err}
	}
	if err := checkTarget(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// checkTarget verifies obj can receive column values.
func checkTarget(obj any) error {
	if _, ok := obj.(*types.Object); ok {
		return nil
	}
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return newError("fetch", ErrConfiguration, StateGeneral, "target must be a non-nil pointer to a struct, got %T", obj)
	}
	return nil
}

// hydrate assigns the named entries of row to matching members of target.
// Columns without a matching member are skipped.
func hydrate(target any, row *types.Row) error {
	if o, ok := target.(*types.Object); ok {
		for _, k := range row.Keys() {
			if k.IsName() {
				v, _ := row.Lookup(k)
				o.Set(k.Name(), v)
			}
		}
		return nil
	}
	if err := checkTarget(target); err != nil {
		return err
	}

	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	for _, k := range row.Keys() {
		if !k.IsName() {
			continue
		}
		field, ok := findField(t, k.Name())
		if !ok {
			continue
		}
		fv := v.FieldByIndex(field.Index)
		if !fv.CanSet() {
			continue
		}
		value, _ := row.Lookup(k)
		if err := assignValue(fv, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// findField matches a column against the db tag, the exact field name, the
// field name ignoring case, then the snake_case form of the field name.
func findField(t reflect.Type, column string) (reflect.StructField, bool) {
	fields := reflect.VisibleFields(t)
	match := func(pred func(f reflect.StructField) bool) (reflect.StructField, bool) {
		for _, f := range fields {
			if f.IsExported() && !f.Anonymous && pred(f) {
				return f, true
			}
		}
		return reflect.StructField{}, false
	}

	if f, ok := match(func(f reflect.StructField) bool {
		tag := strings.Split(f.Tag.Get("db"), ",")[0]
		return tag != "" && tag != "-" && tag == column
	}); ok {
		return f, true
	}
	skipTagged := func(f reflect.StructField) bool { return f.Tag.Get("db") == "-" }
	if f, ok := match(func(f reflect.StructField) bool { return !skipTagged(f) && f.Name == column }); ok {
		return f, true
	}
	if f, ok := match(func(f reflect.StructField) bool { return !skipTagged(f) && strings.EqualFold(f.Name, column) }); ok {
		return f, true
	}
	return match(func(f reflect.StructField) bool {
		return !skipTagged(f) && strings.EqualFold(toSnakeCase(f.Name), column)
	})
}

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf((*time.Time)(nil)).Elem()
)

// assignValue stores a projected value into dst, converting between the
// dynamic value model and the destination's Go type.
func assignValue(dst reflect.Value, value any) error {
	if dst.CanAddr() && dst.Addr().Type().Implements(scannerType) {
		return dst.Addr().Interface().(sql.Scanner).Scan(value)
	}

	dt := dst.Type()
	if value == nil {
		dst.Set(reflect.Zero(dt))
		return nil
	}

	if dt.Kind() == reflect.Ptr {
		elem := reflect.New(dt.Elem())
		if err := assignValue(elem.Elem(), value); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(dt) {
		dst.Set(vv)
		return nil
	}

	switch dt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(numeric(value))
		if err != nil {
			return err
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(numeric(value))
		if err != nil {
			return err
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(numeric(value))
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	case reflect.String:
		s, err := cast.ToStringE(types.Stringify(value))
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Interface:
		if dt.NumMethod() == 0 {
			dst.Set(vv)
			return nil
		}
		return fmt.Errorf("cannot convert %s to %s", vv.Type(), dt)
	default:
		if dt == timeType {
			tm, err := cast.ToTimeE(value)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(tm))
			return nil
		}
		if vv.Type().ConvertibleTo(dt) {
			dst.Set(vv.Convert(dt))
			return nil
		}
		return fmt.Errorf("cannot convert %s to %s", vv.Type(), dt)
	}
	return nil
}

// numeric unwraps values cast cannot parse directly.
func numeric(v any) any {
	switch x := v.(type) {
	case types.Decimal:
		return x.String()
	case []byte:
		return string(x)
	}
	return v
}

// toSnakeCase converts PascalCase to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
