package middleware

import (
	"worker-finder/pkg/httpapi"

	"github.com/gin-gonic/gin"
)

// Error renders the last error recorded with c.Error into the response
// envelope. debug exposes the raw cause in the "error" field.
func Error(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpapi.Fail(c, c.Errors.Last().Err, debug)
	}
}
