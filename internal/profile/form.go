// Package profile edits the signed-in employee's own account details.
package profile

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "waterx/internal/errors"
)

// Form is the profile edit form. An empty Password keeps the current one.
type Form struct {
	Name     string `json:"name" validate:"min=2"`
	Email    string `json:"email" validate:"email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Field names as reported in FieldErrors
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

var fieldMessages = map[string]string{
	FieldName:     "Name must be at least 2 characters.",
	FieldEmail:    "Invalid email address.",
	FieldPassword: "Password must be at least 6 characters.",
}

// fieldOrder is the order fields appear on the form
var fieldOrder = []string{FieldName, FieldEmail, FieldPassword}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator, keyed by json field names
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldErrors maps a field name to its message
type FieldErrors map[string]string

// Error returns the first message in form order
func (fe FieldErrors) Error() string {
	for _, f := range fieldOrder {
		if msg, ok := fe[f]; ok {
			return msg
		}
	}
	for _, msg := range fe {
		return msg
	}
	return ""
}

// Messages returns every message in form order
func (fe FieldErrors) Messages() []string {
	out := make([]string, 0, len(fe))
	for _, f := range fieldOrder {
		if msg, ok := fe[f]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// Validate checks the form and returns nil or the per-field messages
func (f Form) Validate() FieldErrors {
	err := Validator().Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{FieldName: err.Error()}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessages[field]
	}
	return out
}

// validationError wraps fe as an operator-facing validation error
func validationError(fe FieldErrors) error {
	return apperrors.NewValidationError(fe.Error()).WithDetails(strings.Join(fe.Messages(), "; ")).WithCause(fe)
}
