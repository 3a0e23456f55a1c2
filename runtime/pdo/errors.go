package pdo

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/pdo-go/query/placeholder"
)

// Error kinds reported by statements.
var (
	// ErrMixedPlaceholderStyle is returned when a template uses both ? and :name placeholders.
	ErrMixedPlaceholderStyle = placeholder.ErrMixedPlaceholderStyle

	// ErrMalformedTemplate is returned when a template has an unterminated quoted literal.
	ErrMalformedTemplate = placeholder.ErrMalformedTemplate

	// ErrUnknownParameter is returned when a bind targets a parameter the template does not define.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrUnboundParameter is returned when a statement is executed with a parameter left unbound.
	ErrUnboundParameter = errors.New("unbound parameter")

	// ErrStatementExecution is returned when the driver rejects a statement.
	ErrStatementExecution = errors.New("statement execution failed")

	// ErrUnsupportedCursorOrientation is returned for any orientation other than OriNext.
	ErrUnsupportedCursorOrientation = errors.New("unsupported cursor orientation")

	// ErrConfiguration is returned for invalid fetch modes, attributes or parameter types.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFetchShape is returned for fetch modes without a projection.
	ErrUnsupportedFetchShape = errors.New("unsupported fetch shape")

	// ErrUnsupportedAttribute is returned for attributes a statement does not handle.
	ErrUnsupportedAttribute = errors.New("unsupported attribute")

	// ErrStatementClosed is returned for any operation on a closed statement.
	ErrStatementClosed = errors.New("statement is closed")

	// ErrNoCursor is returned when fetching from a statement that was never executed.
	ErrNoCursor = errors.New("no active cursor")

	// ErrColumnOutOfRange is returned when a column index or name does not exist in the result.
	ErrColumnOutOfRange = errors.New("column out of range")

	// ErrUnknownClass is returned when a class-targeted fetch names an unregistered class.
	ErrUnknownClass = errors.New("unknown class")
)

// SQLSTATE codes reported by the statement itself.
const (
	StateOK                = "00000"
	StateGeneral           = "HY000"
	StateFunctionSequence  = "HY010"
	StateInvalidParameter  = "HY093"
	StateInvalidParamType  = "HY105"
	StateSyntax            = "42000"
	StateNotImplemented    = "IM001"
	StateInvalidDescriptor = "07009"
)

// Error describes a failed statement operation. Kind is one of the sentinel
// errors above; Cause is the driver or parser error, if any.
type Error struct {
	Op       string
	Kind     error
	SQLState string
	Code     int
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if msg == "" {
		return fmt.Sprintf("%s: SQLSTATE[%s]: %v", e.Op, e.SQLState, e.Kind)
	}
	return fmt.Sprintf("%s: SQLSTATE[%s]: %v: %s", e.Op, e.SQLState, e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func newError(op string, kind error, state string, format string, args ...any) *Error {
	return &Error{
		Op:       op,
		Kind:     kind,
		SQLState: state,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsUnknownParameter reports whether err is an unknown parameter error.
func IsUnknownParameter(err error) bool {
	return errors.Is(err, ErrUnknownParameter)
}

// IsExecution reports whether err is a driver execution failure.
func IsExecution(err error) bool {
	return errors.Is(err, ErrStatementExecution)
}
