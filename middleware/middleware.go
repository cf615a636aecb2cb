// Package middleware holds the pieces the echo and gin submodules share: a
// context key for the parsed request body and the Issues error payload
// shape.
package middleware

import (
	"context"

	njson "github.com/velaware/njson"
	"github.com/velaware/njson/value"
)

type ctxKeyValue struct{}

// ContextWithValue attaches the parsed request body to ctx.
func ContextWithValue(ctx context.Context, v *value.Value) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the request body parsed by ValidateJSON.
func ValueFromContext(ctx context.Context) (*value.Value, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(*value.Value)
	return v, ok
}

// ErrorPayload shapes Issues for a JSON error response body.
func ErrorPayload(issues njson.Issues) map[string]any {
	return map[string]any{"issues": issues}
}
