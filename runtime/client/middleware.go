package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/satishbabariya/pdo-go/runtime/pdo"
)

// QueryEvent represents a query execution event
type QueryEvent = pdo.QueryEvent

// Middleware is a function that intercepts queries
type Middleware = pdo.Interceptor

// LoggingMiddleware creates a middleware that logs queries
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		logger.DebugContext(ctx, "executing query", "sql", event.SQL, "args", len(event.Args))
		err := next()
		if err != nil {
			logger.WarnContext(ctx, "query failed", "sql", event.SQL, "error", err)
		} else {
			logger.DebugContext(ctx, "query completed", "sql", event.SQL, "duration", event.Duration, "rows_affected", event.RowsAffected)
		}
		return err
	}
}

// TimingMiddleware creates a middleware that measures query execution time
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware creates a middleware that handles errors
func ErrorMiddleware(onError func(query string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Query, err)
		}
		return err
	}
}

// SlowQueryMiddleware reports executions slower than threshold.
func SlowQueryMiddleware(threshold time.Duration, onSlow func(event *QueryEvent)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if event.Duration >= threshold && onSlow != nil {
			onSlow(event)
		}
		return err
	}
}
