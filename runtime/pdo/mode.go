package pdo

import "fmt"

// FetchMode selects the shape a fetched row is projected into.
type FetchMode int

const (
	// FetchDefault uses the statement's configured mode.
	FetchDefault FetchMode = iota
	// FetchAssoc projects a row keyed by column name.
	FetchAssoc
	// FetchNum projects a row keyed by zero-based column index.
	FetchNum
	// FetchBoth projects a row keyed by both name and index.
	FetchBoth
	// FetchObj projects a row into an anonymous *types.Object.
	FetchObj
	// FetchColumn returns a single column value.
	FetchColumn
	// FetchClass constructs a registered class and assigns its members.
	FetchClass
	// FetchInto assigns members of an existing object.
	FetchInto
	// FetchBound only refreshes columns bound with BindColumn.
	FetchBound
	// FetchLazy is recognized but has no projection.
	FetchLazy
	// FetchNamed is recognized but has no projection.
	FetchNamed
)

var fetchModeNames = map[FetchMode]string{
	FetchDefault: "default",
	FetchAssoc:   "assoc",
	FetchNum:     "num",
	FetchBoth:    "both",
	FetchObj:     "obj",
	FetchColumn:  "column",
	FetchClass:   "class",
	FetchInto:    "into",
	FetchBound:   "bound",
	FetchLazy:    "lazy",
	FetchNamed:   "named",
}

// String returns the mode name.
func (m FetchMode) String() string {
	if s, ok := fetchModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("FetchMode(%d)", int(m))
}

// Valid reports whether m is a recognized mode.
func (m FetchMode) Valid() bool {
	_, ok := fetchModeNames[m]
	return ok
}

// ParseFetchMode resolves a mode name such as "assoc".
func ParseFetchMode(name string) (FetchMode, error) {
	for m, s := range fetchModeNames {
		if s == name && m != FetchDefault {
			return m, nil
		}
	}
	return 0, newError("parse fetch mode", ErrConfiguration, StateGeneral, "unknown fetch mode %q", name)
}

// Orientation selects the row a fetch moves to. Only OriNext is supported.
type Orientation int

const (
	OriNext Orientation = iota
	OriPrior
	OriFirst
	OriLast
	OriAbs
	OriRel
)

// ParamType declares how a bound value is sent to the driver.
type ParamType int

const (
	// ParamAuto keeps the value's Go type.
	ParamAuto ParamType = iota
	// ParamNull always sends NULL.
	ParamNull
	// ParamInt sends an int64.
	ParamInt
	// ParamStr sends a string.
	ParamStr
	// ParamLOB sends []byte.
	ParamLOB
	// ParamBool sends a bool.
	ParamBool
)

var paramTypeNames = [...]string{"auto", "null", "int", "str", "lob", "bool"}

// String returns the type name.
func (t ParamType) String() string {
	if t >= 0 && int(t) < len(paramTypeNames) {
		return paramTypeNames[t]
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// Attribute identifies a statement or client attribute.
type Attribute int

const (
	// AttrCase controls column name case (Case).
	AttrCase Attribute = iota + 1
	// AttrDefaultFetchMode sets the mode used by FetchDefault (FetchMode).
	AttrDefaultFetchMode
	// AttrStringifyFetches converts fetched values to strings (bool).
	AttrStringifyFetches
	// AttrStringifyParams sends every bound value as text (bool).
	AttrStringifyParams
	// AttrCursor selects the cursor type (Cursor).
	AttrCursor
	// AttrCursorName names the cursor; not supported.
	AttrCursorName
	// AttrDriverName reports the driver name; read-only, client level.
	AttrDriverName
	// AttrServerVersion reports the server version; read-only, client level.
	AttrServerVersion
)

// Case is the value of AttrCase.
type Case int

const (
	CaseNatural Case = iota
	CaseLower
	CaseUpper
)

// Cursor is the value of AttrCursor.
type Cursor int

const (
	CursorFwdOnly Cursor = iota
	CursorScroll
)
