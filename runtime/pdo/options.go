package pdo

import (
	"log/slog"

	"github.com/satishbabariya/pdo-go/query/cache"
)

// Option configures a statement at prepare time.
type Option func(*Statement)

// WithAttribute sets an attribute before the statement is prepared. Invalid
// values make Prepare fail.
func WithAttribute(attr Attribute, value any) Option {
	return func(s *Statement) {
		s.pending = append(s.pending, pendingAttr{attr: attr, value: value})
	}
}

// WithAttributes starts the statement from a full attribute set.
func WithAttributes(attrs Attributes) Option {
	return func(s *Statement) {
		s.attrs = attrs
	}
}

// WithRewriteCache shares rewritten templates between statements.
func WithRewriteCache(c *cache.Cache) Option {
	return func(s *Statement) {
		s.cache = c
	}
}

// WithInterceptor adds execution interceptors.
func WithInterceptor(ics ...Interceptor) Option {
	return func(s *Statement) {
		s.interceptors = append(s.interceptors, ics...)
	}
}

// WithLogger replaces the statement logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Statement) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClasses sets the registry used by class-targeted fetches.
func WithClasses(r *ClassRegistry) Option {
	return func(s *Statement) {
		if r != nil {
			s.classes = r
		}
	}
}

type pendingAttr struct {
	attr  Attribute
	value any
}
