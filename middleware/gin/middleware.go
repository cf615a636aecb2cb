// Package ginmw validates a Gin request body against a compiled schema
// before the handler runs.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	njson "github.com/velaware/njson"
	"github.com/velaware/njson/middleware"
	"github.com/velaware/njson/value"
)

// ValidateJSON parses the request body against sch, storing the parsed
// value in the request context on success, or responding 400 with the
// Issues serialized as JSON on rejection.
func ValidateJSON(sch *njson.Schema, opts ...njson.Option) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, issues, err := njson.ParseReader(c.Request.Body, sch, opts...)
		if err != nil {
			if iss, ok := njson.AsIssues(err); ok {
				c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				c.Abort()
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		if len(issues) > 0 {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(issues))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the request body ValidateJSON parsed, from a Gin
// context.
func GetValue(c *gin.Context) (*value.Value, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
