// Package echomw validates an Echo request body against a compiled schema
// before the handler runs.
package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	njson "github.com/velaware/njson"
	"github.com/velaware/njson/middleware"
	"github.com/velaware/njson/value"
)

// ValidateJSON parses the request body against sch, storing the parsed
// value in the request context on success, or responding 400 with the
// Issues serialized as JSON on rejection.
func ValidateJSON(sch *njson.Schema, opts ...njson.Option) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, issues, err := njson.ParseReader(c.Request().Body, sch, opts...)
			if err != nil {
				if iss, ok := njson.AsIssues(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				}
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			if len(issues) > 0 {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(issues))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the request body ValidateJSON parsed, from an Echo
// context.
func GetValue(c echo.Context) (*value.Value, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
