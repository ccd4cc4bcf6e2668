// Package validation registers the task rules on gin's validator and turns
// binding failures into itemized field errors.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	dom "Tasker/internal/domain"
	"Tasker/internal/dto"
	"Tasker/internal/response"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Register installs the custom tags and types used by the request DTOs.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(optionalString, dto.Optional[string]{})
	if err := v.RegisterValidation("taskstatus", StatusValidator); err != nil {
		return fmt.Errorf("register taskstatus: %w", err)
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	return nil
}

// RegisterGin installs the rules on gin's default binding engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

// StatusValidator accepts only the known task statuses.
func StatusValidator(fl validator.FieldLevel) bool {
	return dom.Status(fl.Field().String()).Valid()
}

// optionalString exposes a supplied Optional as a *string so that omitempty
// skips absent keys while an explicit empty or null value is still checked.
func optionalString(field reflect.Value) any {
	o, ok := field.Interface().(dto.Optional[string])
	if !ok || !o.Set {
		return (*string)(nil)
	}
	return o.Ptr()
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

var messages = map[string]string{
	"title.required":    "Title is required",
	"title.notblank":    "Title is required",
	"title.max":         "Title cannot exceed 100 characters",
	"description.max":   "Description cannot exceed 500 characters",
	"status.taskstatus": "Status must be pending, in-progress, or completed",
	"rating.required":   "Rating must be between 1 and 5",
	"rating.min":        "Rating must be between 1 and 5",
	"rating.max":        "Rating must be between 1 and 5",
	"username.required": "Username is required",
	"username.notblank": "Username is required",
	"username.max":      "Username cannot exceed 120 characters",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"password.max":      "Password cannot exceed 72 characters",
}

// typeMessages covers JSON values of the wrong type, which never reach the validator.
var typeMessages = map[string]string{
	"title":       "Title must be a string",
	"description": "Description must be a string",
	"status":      "Status must be pending, in-progress, or completed",
	"rating":      "Rating must be between 1 and 5",
}

// FieldErrors converts a binding error into the itemized list sent to clients.
func FieldErrors(err error) []response.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, response.FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		msg, ok := typeMessages[field]
		if !ok {
			msg = fmt.Sprintf("%s has an invalid type", field)
		}
		return []response.FieldError{{Field: field, Message: msg}}
	}

	if errors.Is(err, io.EOF) {
		return []response.FieldError{{Field: "body", Message: "Request body is required"}}
	}
	return []response.FieldError{{Field: "body", Message: "Request body must be valid JSON"}}
}

func messageFor(fe validator.FieldError) string {
	return Message(fe.Field(), fe.Tag())
}

// Message phrases a broken rule on a field the same way a binding failure
// on that field and tag is phrased.
func Message(field, rule string) string {
	if msg, ok := messages[field+"."+rule]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
