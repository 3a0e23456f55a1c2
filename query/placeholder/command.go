// Package placeholder rewrites SQL templates that use positional (?) or named
// (:name) placeholders into a driver-native parameterized query.
package placeholder

import (
	"fmt"
	"strings"
)

// Mode is the placeholder style a template committed to.
type Mode int

const (
	// ModeNone means the template has no placeholders.
	ModeNone Mode = iota
	// ModePositional means the template uses ? placeholders.
	ModePositional
	// ModeNamed means the template uses :name placeholders.
	ModeNamed
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePositional:
		return "positional"
	case ModeNamed:
		return "named"
	default:
		return "none"
	}
}

// FormatFunc renders the driver-native text for a slot. ordinal is the
// 1-based position of the slot in creation order.
type FormatFunc func(slot string, ordinal int) string

// AtName renders @slot (SQLite, SQL Server style).
func AtName(slot string, _ int) string {
	return "@" + slot
}

// ColonName renders :slot.
func ColonName(slot string, _ int) string {
	return ":" + slot
}

// Dollar renders $ordinal (PostgreSQL style).
func Dollar(_ string, ordinal int) string {
	return fmt.Sprintf("$%d", ordinal)
}

// Question renders ? (MySQL style). Arguments must then be supplied per occurrence.
func Question(string, int) string {
	return "?"
}

// Command is the immutable result of rewriting a template.
type Command struct {
	// Template is the SQL text as supplied by the caller.
	Template string

	// SQL is the driver-native query text.
	SQL string

	// Mode is the placeholder style of the template.
	Mode Mode

	// Slots lists synthesized slot names in creation order.
	Slots []string

	// Names maps user-given parameter names to slot names (named mode only).
	Names map[string]string

	// Occurrences lists the slot referenced by each placeholder, left to right.
	Occurrences []string
}

// SlotCount returns the number of distinct slots.
func (c *Command) SlotCount() int {
	return len(c.Slots)
}

// Ordinal returns the 1-based creation position of slot, or 0 if unknown.
func (c *Command) Ordinal(slot string) int {
	for i, s := range c.Slots {
		if s == slot {
			return i + 1
		}
	}
	return 0
}

// Positional resolves a 1-based parameter position to its slot.
// It only succeeds for positional templates.
func (c *Command) Positional(position int) (string, bool) {
	if c.Mode != ModePositional || position < 1 || position > len(c.Slots) {
		return "", false
	}
	return c.Slots[position-1], true
}

// Named resolves a parameter name, with or without its leading colon, to its slot.
// It only succeeds for named templates.
func (c *Command) Named(name string) (string, bool) {
	if c.Mode != ModeNamed {
		return "", false
	}
	slot, ok := c.Names[strings.TrimPrefix(name, ":")]
	return slot, ok
}

// ParameterName returns the user-facing name of a slot: ":name" in named mode,
// "" in positional mode.
func (c *Command) ParameterName(slot string) string {
	if c.Mode != ModeNamed {
		return ""
	}
	for name, s := range c.Names {
		if s == slot {
			return ":" + name
		}
	}
	return ""
}
