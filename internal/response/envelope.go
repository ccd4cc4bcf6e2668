// Package response writes the uniform JSON envelope every endpoint returns.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError is one itemized validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK writes a successful envelope. message and data may be empty.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail aborts the request with an error envelope carrying only a message.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

// Invalid aborts with 400 and the itemized validation errors.
func Invalid(c *gin.Context, errs []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Internal aborts with 500 and a generic message. The raw error text is only
// attached when expose is set, which is never the case in production.
func Internal(c *gin.Context, message string, err error, expose bool) {
	env := Envelope{Success: false, Message: message}
	if err != nil {
		if expose {
			env.Error = err.Error()
		}
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, env)
}
