package handlers

import (
	"errors"
	"net/http"

	"Tasker/internal/auth"
	"Tasker/internal/response"
	"Tasker/internal/service"
	"Tasker/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const msgTaskNotFound = "Task not found"

// bindJSON decodes and validates the body. On failure it writes the 400
// envelope and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Invalid(c, validation.FieldErrors(err))
		return false
	}
	return true
}

// fail maps a service error onto the envelope. Anything that is not a known
// client error is logged and answered with 500 and the given message.
func fail(c *gin.Context, log logrus.FieldLogger, expose bool, op, message string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, msgTaskNotFound)
	case errors.Is(err, service.ErrInvalidTask):
		response.Invalid(c, invalidFields(err))
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"op":      op,
			"user_id": auth.UserIDFromContext(c),
			"task_id": c.Param("id"),
		}).Error("store operation failed")
		response.Internal(c, message, err, expose)
	}
}

func invalidFields(err error) []response.FieldError {
	var fe *service.FieldError
	if errors.As(err, &fe) {
		return []response.FieldError{{Field: fe.Field, Message: validation.Message(fe.Field, fe.Rule)}}
	}
	return []response.FieldError{{Field: "body", Message: "Task is invalid"}}
}
