package pdo

import (
	"context"
	"time"
)

// QueryEvent describes one statement execution.
type QueryEvent struct {
	Query        string // template as written by the caller
	SQL          string // driver-native text
	Args         []any
	RowsAffected int64
	Duration     time.Duration
	Error        error
	Start        time.Time
	End          time.Time
}

// Interceptor wraps statement execution. It must call next exactly once to
// run the statement, and may inspect the event before and after.
type Interceptor func(ctx context.Context, event *QueryEvent, next func() error) error

// intercept runs exec through the interceptor chain in registration order.
func intercept(ctx context.Context, chain []Interceptor, event *QueryEvent, exec func() error) error {
	event.Start = time.Now()
	finish := func() error {
		err := exec()
		event.End = time.Now()
		event.Duration = event.End.Sub(event.Start)
		event.Error = err
		return err
	}
	if len(chain) == 0 {
		return finish()
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(chain) {
			return finish()
		}
		ic := chain[index]
		index++
		return ic(ctx, event, next)
	}

	return next()
}
