package client

import (
	"context"
	"net/http"
)

// contextKey is a type for context keys.
type contextKey string

// clientKey is the context key for client.
const clientKey contextKey = "pdo_client"

// WithClient stores a client in the context.
func WithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientKey, c)
}

// FromContext retrieves a client from the context.
func FromContext(ctx context.Context) (*Client, bool) {
	c, ok := ctx.Value(clientKey).(*Client)
	return c, ok && c != nil
}

// Handler attaches c to the context of every request passed to next.
func Handler(c *Client, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), c)))
	})
}

// FromRequest retrieves the client attached by Handler.
func FromRequest(r *http.Request) (*Client, bool) {
	return FromContext(r.Context())
}
