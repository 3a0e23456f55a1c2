// Package types provides the dynamic value model rows are projected into.
package types

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// Decimal represents an exact decimal number as reported by the driver.
type Decimal struct {
	value string
}

// NewDecimal creates a new decimal from string
func NewDecimal(value string) Decimal {
	return Decimal{value: value}
}

// String returns the string representation
func (d Decimal) String() string {
	return d.value
}

// Float64 converts the decimal, losing precision where float64 cannot represent it.
func (d Decimal) Float64() (float64, error) {
	return cast.ToFloat64E(d.value)
}

// MarshalJSON encodes the decimal as a JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.value == "" {
		return []byte("null"), nil
	}
	if !json.Valid([]byte(d.value)) {
		return json.Marshal(d.value)
	}
	return []byte(d.value), nil
}
