package types

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Kind is the dynamic value family a column's declared type maps to.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindDecimal
	KindBool
	KindText
	KindBinary
	KindTime
)

// TimeLayout is used when time values are stringified.
const TimeLayout = "2006-01-02 15:04:05"

// KindOf classifies a driver-reported database type name such as "INTEGER",
// "NUMERIC", "VARCHAR" or "BYTEA". Unknown names yield KindUnknown.
func KindOf(dbType string) Kind {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch {
	case t == "":
		return KindUnknown
	case t == "INTERVAL", t == "POINT":
		return KindText
	case strings.Contains(t, "BLOB"), t == "BYTEA", strings.HasSuffix(t, "BINARY"):
		return KindBinary
	case t == "BOOL", t == "BOOLEAN":
		return KindBool
	case strings.Contains(t, "INT"), t == "SERIAL", t == "BIGSERIAL", t == "YEAR":
		return KindInt
	case t == "DECIMAL", t == "NUMERIC", t == "MONEY":
		return KindDecimal
	case strings.Contains(t, "FLOAT"), strings.Contains(t, "DOUBLE"), t == "REAL":
		return KindFloat
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return KindTime
	case strings.Contains(t, "CHAR"), strings.Contains(t, "TEXT"), strings.Contains(t, "CLOB"),
		t == "JSON", t == "JSONB", t == "UUID", t == "ENUM", t == "SET":
		return KindText
	default:
		return KindUnknown
	}
}

// FromDriver converts a scanned driver value into the dynamic value model.
// Text-protocol bytes are decoded by the column's declared type; binary
// columns stay []byte. With stringify set every non-nil, non-binary value
// becomes a string.
func FromDriver(v any, dbType string, stringify bool) any {
	if v == nil {
		return nil
	}
	kind := KindOf(dbType)

	if b, ok := v.([]byte); ok {
		if kind == KindBinary {
			return append([]byte(nil), b...)
		}
		v = decodeText(string(b), kind)
	}

	if stringify {
		return Stringify(v)
	}
	return v
}

func decodeText(s string, kind Kind) any {
	switch kind {
	case KindInt:
		if n, err := cast.ToInt64E(s); err == nil {
			return n
		}
	case KindFloat:
		if f, err := cast.ToFloat64E(s); err == nil {
			return f
		}
	case KindDecimal:
		return NewDecimal(s)
	case KindBool:
		if b, err := cast.ToBoolE(s); err == nil {
			return b
		}
	}
	return s
}

// Stringify renders a dynamic value as text. Nil stays nil and []byte is kept.
func Stringify(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return x
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format(TimeLayout)
	case Decimal:
		return x.String()
	default:
		return cast.ToString(x)
	}
}
