package pdo

import (
	"strings"

	"github.com/spf13/cast"
)

// Attributes holds the statement-level attribute values.
type Attributes struct {
	Case             Case
	DefaultFetchMode FetchMode
	StringifyFetches bool
	StringifyParams  bool
	Cursor           Cursor
}

// DefaultAttributes returns the attributes a statement starts with.
func DefaultAttributes() Attributes {
	return Attributes{DefaultFetchMode: FetchBoth}
}

// Set validates and assigns an attribute. Enumerated attributes accept their
// typed constant, an int, or a name such as "lower" or "assoc".
func (a *Attributes) Set(attr Attribute, value any) error {
	switch attr {
	case AttrCase:
		c, err := parseCase(value)
		if err != nil {
			return err
		}
		a.Case = c
	case AttrDefaultFetchMode:
		m, err := parseMode(value)
		if err != nil {
			return err
		}
		switch m {
		case FetchAssoc, FetchNum, FetchBoth, FetchObj, FetchBound:
		case FetchLazy, FetchNamed:
			return newError("set attribute", ErrUnsupportedFetchShape, StateNotImplemented, "fetch mode %s has no projection", m)
		default:
			return newError("set attribute", ErrConfiguration, StateGeneral, "fetch mode %s needs arguments, use SetFetchMode", m)
		}
		a.DefaultFetchMode = m
	case AttrStringifyFetches, AttrStringifyParams:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return newError("set attribute", ErrConfiguration, StateGeneral, "attribute %d expects a bool: %v", attr, err)
		}
		if attr == AttrStringifyFetches {
			a.StringifyFetches = b
		} else {
			a.StringifyParams = b
		}
	case AttrCursor:
		c, ok := value.(Cursor)
		if !ok {
			n, err := cast.ToIntE(value)
			if err != nil {
				return newError("set attribute", ErrConfiguration, StateGeneral, "invalid cursor type %v", value)
			}
			c = Cursor(n)
		}
		switch c {
		case CursorFwdOnly:
			a.Cursor = c
		case CursorScroll:
			return newError("set attribute", ErrConfiguration, StateNotImplemented, "scrollable cursors are not supported")
		default:
			return newError("set attribute", ErrConfiguration, StateGeneral, "invalid cursor type %v", value)
		}
	default:
		return newError("set attribute", ErrUnsupportedAttribute, StateNotImplemented, "attribute %d is not supported by statements", attr)
	}
	return nil
}

// Get returns an attribute value.
func (a *Attributes) Get(attr Attribute) (any, error) {
	switch attr {
	case AttrCase:
		return a.Case, nil
	case AttrDefaultFetchMode:
		return a.DefaultFetchMode, nil
	case AttrStringifyFetches:
		return a.StringifyFetches, nil
	case AttrStringifyParams:
		return a.StringifyParams, nil
	case AttrCursor:
		return a.Cursor, nil
	default:
		return nil, newError("get attribute", ErrUnsupportedAttribute, StateNotImplemented, "attribute %d is not supported by statements", attr)
	}
}

// ParseCase resolves "natural", "lower" or "upper".
func ParseCase(name string) (Case, error) {
	switch strings.ToLower(name) {
	case "", "natural":
		return CaseNatural, nil
	case "lower":
		return CaseLower, nil
	case "upper":
		return CaseUpper, nil
	}
	return 0, newError("parse case", ErrConfiguration, StateGeneral, "unknown case %q", name)
}

func parseCase(value any) (Case, error) {
	switch v := value.(type) {
	case Case:
		if v < CaseNatural || v > CaseUpper {
			return 0, newError("set attribute", ErrConfiguration, StateGeneral, "invalid case %d", v)
		}
		return v, nil
	case string:
		return ParseCase(v)
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return 0, newError("set attribute", ErrConfiguration, StateGeneral, "invalid case %v", value)
	}
	return parseCase(Case(n))
}

func parseMode(value any) (FetchMode, error) {
	switch v := value.(type) {
	case FetchMode:
		if !v.Valid() {
			return 0, newError("set attribute", ErrConfiguration, StateGeneral, "unknown fetch mode %d", int(v))
		}
		return v, nil
	case string:
		return ParseFetchMode(strings.ToLower(v))
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return 0, newError("set attribute", ErrConfiguration, StateGeneral, "invalid fetch mode %v", value)
	}
	return parseMode(FetchMode(n))
}

func applyCase(c Case, name string) string {
	switch c {
	case CaseLower:
		return strings.ToLower(name)
	case CaseUpper:
		return strings.ToUpper(name)
	default:
		return name
	}
}
