package httpapi

import (
	"net/http"

	"worker-finder/pkg/errutil"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    any              `json:"data,omitempty"`
	Errors  []errutil.Detail `json:"errors,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Fail writes err as a failed envelope. The raw cause is only exposed when
// debug is set.
func Fail(c *gin.Context, err error, debug bool) {
	be, ok := errutil.As(err)
	if !ok {
		resp := Response{Success: false, Message: "Internal server error"}
		if debug {
			resp.Error = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		return
	}

	resp := Response{
		Success: false,
		Message: be.Message,
		Errors:  be.Details,
	}
	if debug {
		resp.Error = be.Cause()
	}
	c.AbortWithStatusJSON(be.Code.HTTPStatus(), resp)
}
