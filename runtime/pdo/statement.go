// Package pdo implements prepared statements over database/sql with
// placeholder rewriting and configurable row projection.
package pdo

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/satishbabariya/pdo-go/adapters/database"
	"github.com/satishbabariya/pdo-go/internal/debug"
	"github.com/satishbabariya/pdo-go/query/cache"
	"github.com/satishbabariya/pdo-go/query/placeholder"
)

// Preparer creates driver statements. *sql.DB, *sql.Conn and *sql.Tx implement it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type state int

const (
	stateUnprepared state = iota
	statePrepared
	stateExecuted
	stateClosed
)

func (st state) String() string {
	switch st {
	case statePrepared:
		return "prepared"
	case stateExecuted:
		return "executed"
	case stateClosed:
		return "closed"
	default:
		return "unprepared"
	}
}

// Statement is a prepared statement with at most one open result cursor.
// A Statement is not safe for concurrent use.
type Statement struct {
	cmd     *placeholder.Command
	dialect database.Dialect
	stmt    *sql.Stmt
	state   state

	attrs        Attributes
	pending      []pendingAttr
	cache        *cache.Cache
	interceptors []Interceptor
	log          *slog.Logger
	classes      *ClassRegistry

	bindings map[string]*binding
	cur      *cursor
	rowCount int64
	fetch    fetchConfig
	bound    []boundColumn

	info database.ErrorInfo
	err  error
}

// Prepare rewrites query for dialect and prepares it on p. The template must
// use either ? or :name placeholders, not both.
func Prepare(ctx context.Context, p Preparer, dialect database.Dialect, query string, opts ...Option) (*Statement, error) {
	if p == nil || dialect == nil {
		return nil, newError("prepare", ErrConfiguration, StateGeneral, "a preparer and a dialect are required")
	}

	s := &Statement{
		dialect:  dialect,
		attrs:    DefaultAttributes(),
		log:      debug.Component("statement"),
		classes:  DefaultClasses,
		bindings: make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, pa := range s.pending {
		if err := s.attrs.Set(pa.attr, pa.value); err != nil {
			return nil, err
		}
	}
	s.pending = nil
	s.fetch = fetchConfig{mode: s.attrs.DefaultFetchMode}

	var (
		cmd *placeholder.Command
		err error
	)
	if s.cache != nil {
		cmd, err = s.cache.Rewrite(string(dialect.Name()), query, dialect.Placeholder)
	} else {
		cmd, err = placeholder.Rewrite(query, dialect.Placeholder)
	}
	if err != nil {
		return nil, rewriteError(err)
	}
	s.cmd = cmd

	stmt, err := p.PrepareContext(ctx, cmd.SQL)
	if err != nil {
		e := s.driverError("prepare", err)
		s.log.Warn("statement prepare failed", "sql", cmd.SQL, "sqlstate", e.SQLState, "error", err)
		return nil, e
	}
	s.stmt = stmt
	s.state = statePrepared
	s.log.Debug("statement prepared", "sql", cmd.SQL, "mode", cmd.Mode.String(), "slots", len(cmd.Slots))
	return s, nil
}

func rewriteError(err error) *Error {
	e := &Error{Op: "prepare", Kind: ErrMalformedTemplate, SQLState: StateSyntax, Cause: err}
	var pe *placeholder.ParseError
	if errors.As(err, &pe) {
		if errors.Is(pe.Err, ErrMixedPlaceholderStyle) {
			e.Kind = ErrMixedPlaceholderStyle
			e.SQLState = StateInvalidParameter
			e.Message = "cannot mix positional and named parameters: " + strings.TrimSpace(pe.Token)
		} else {
			e.Message = pe.Token
		}
	}
	return e
}

// Execute binds params, if any, then runs the statement. Any open cursor is
// closed first. A driver failure leaves the statement prepared and reusable.
func (s *Statement) Execute(ctx context.Context, params ...Params) error {
	if s.state == stateClosed || s.state == stateUnprepared {
		return s.fail(newError("execute", ErrStatementClosed, StateGeneral, "statement is %s", s.state))
	}
	for _, p := range params {
		if err := s.BindValues(p); err != nil {
			return err
		}
	}
	s.CloseCursor()

	args, err := s.args()
	if err != nil {
		return s.fail(err)
	}

	var rows *sql.Rows
	event := &QueryEvent{Query: s.cmd.Template, SQL: s.cmd.SQL, Args: args}
	query := returnsRows(s.cmd.SQL)
	err = intercept(ctx, s.interceptors, event, func() error {
		if query {
			r, err := s.stmt.QueryContext(ctx, args...)
			rows = r
			return err
		}
		res, err := s.stmt.ExecContext(ctx, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			event.RowsAffected = n
		}
		return nil
	})
	if err != nil {
		if rows != nil {
			rows.Close()
		}
		e := s.driverError("execute", err)
		s.log.Warn("statement execution failed", "sql", s.cmd.SQL, "sqlstate", e.SQLState, "error", err)
		return s.fail(e)
	}

	s.state = stateExecuted
	s.rowCount = event.RowsAffected
	if rows != nil {
		s.cur = &cursor{rows: rows}
	}
	s.log.Debug("statement executed", "sql", s.cmd.SQL, "args", len(args), "rows", query, "duration", event.Duration)
	s.succeed()
	return nil
}

// CloseCursor releases the open cursor. It reports whether one was open.
func (s *Statement) CloseCursor() bool {
	if s.state != stateExecuted {
		return false
	}
	if s.cur != nil {
		if err := s.cur.close(); err != nil {
			s.log.Warn("closing cursor failed", "error", err)
		}
		s.cur = nil
	}
	s.state = statePrepared
	return true
}

// Close releases the cursor and the driver statement. It is idempotent and
// safe on a statement whose preparation failed.
func (s *Statement) Close() error {
	if s == nil || s.state == stateClosed {
		return nil
	}
	s.CloseCursor()
	var err error
	if s.stmt != nil {
		err = s.stmt.Close()
		s.stmt = nil
	}
	s.state = stateClosed
	if s.log != nil && s.cmd != nil {
		s.log.Debug("statement closed", "sql", s.cmd.SQL)
	}
	return err
}

// QueryString returns the template the statement was prepared from.
func (s *Statement) QueryString() string {
	if s.cmd == nil {
		return ""
	}
	return s.cmd.Template
}

// Command returns the rewritten command.
func (s *Statement) Command() *placeholder.Command {
	return s.cmd
}

// RowCount returns the rows affected by the last write, or the rows fetched
// so far from the current result.
func (s *Statement) RowCount() int64 {
	return s.rowCount
}

// ErrorCode returns the SQLSTATE of the last operation: "" before any
// operation, "00000" after a success.
func (s *Statement) ErrorCode() string {
	return s.info.SQLState
}

// ErrorInfo returns the SQLSTATE, driver code and message of the last operation.
func (s *Statement) ErrorInfo() database.ErrorInfo {
	return s.info
}

// Err returns the error captured by the last operation, or nil. It tells a
// failed fetch apart from the end of the result.
func (s *Statement) Err() error {
	return s.err
}

// SetAttribute sets a statement attribute.
func (s *Statement) SetAttribute(attr Attribute, value any) error {
	next := s.attrs
	if err := next.Set(attr, value); err != nil {
		return s.fail(err)
	}
	s.attrs = next
	if attr == AttrDefaultFetchMode {
		s.fetch = fetchConfig{mode: next.DefaultFetchMode}
	}
	return nil
}

// GetAttribute returns a statement attribute.
func (s *Statement) GetAttribute(attr Attribute) (any, error) {
	v, err := s.attrs.Get(attr)
	if err != nil {
		return nil, s.fail(err)
	}
	return v, nil
}

func (s *Statement) succeed() {
	s.err = nil
	s.info = database.ErrorInfo{SQLState: StateOK}
}

func (s *Statement) fail(err error) error {
	s.err = err
	var e *Error
	if errors.As(err, &e) {
		s.info = database.ErrorInfo{SQLState: e.SQLState, Code: e.Code, Message: e.Error()}
	} else {
		s.info = database.ErrorInfo{SQLState: StateGeneral, Message: err.Error()}
	}
	return err
}

func (s *Statement) driverError(op string, err error) *Error {
	info, ok := s.dialect.ErrorInfo(err)
	if !ok {
		info = database.ErrorInfo{SQLState: StateGeneral, Message: err.Error()}
	}
	return &Error{
		Op:       op,
		Kind:     ErrStatementExecution,
		SQLState: info.SQLState,
		Code:     info.Code,
		Message:  info.Message,
		Cause:    err,
	}
}

var leadingNoise = regexp.MustCompile(`^(?:\s+|--[^\n]*\n?|/\*(?s:.*?)\*/|\()*`)

var rowKeywords = map[string]bool{
	"SELECT": true, "WITH": true, "VALUES": true, "SHOW": true, "PRAGMA": true,
	"EXPLAIN": true, "DESCRIBE": true, "DESC": true, "TABLE": true,
}

// returnsRows reports whether a statement produces a result set.
func returnsRows(sqlText string) bool {
	rest := sqlText[len(leadingNoise.FindString(sqlText)):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		end = len(rest)
	}
	if rowKeywords[strings.ToUpper(rest[:end])] {
		return true
	}
	return placeholder.HasKeyword(sqlText, "RETURNING")
}
