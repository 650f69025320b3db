package core

// validation.go checks the "add order" form before a record is inserted.
//
// Fields are trimmed first, then validated with struct tags. A failure lists
// every offending field so the caller can report them together.

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// MissingFieldsMessage is shown to the user when a required field is empty.
const MissingFieldsMessage = "Please fill in all required fields"

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a submitted form is rejected.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MissingRequired reports whether any field failed the required check.
func (e *ValidationError) MissingRequired() bool {
	for _, f := range e.Fields {
		if f.Message == msgRequired {
			return true
		}
	}
	return false
}

// UserMessage returns the notification text for this error.
func (e *ValidationError) UserMessage() string {
	if e.MissingRequired() {
		return MissingFieldsMessage
	}
	return "Please choose a valid status"
}

const (
	msgRequired      = "required field is empty"
	msgInvalidStatus = "invalid status"
)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// NormalizeForm returns a copy of f with every field trimmed and the status
// lower-cased.
func NormalizeForm(f RecordForm) RecordForm {
	return RecordForm{
		CustomerName: strings.TrimSpace(f.CustomerName),
		Email:        strings.TrimSpace(f.Email),
		Project:      strings.TrimSpace(f.Project),
		Address:      strings.TrimSpace(f.Address),
		Status:       strings.ToLower(strings.TrimSpace(f.Status)),
	}
}

// ValidateForm normalizes and validates f. It returns the normalized form and
// a *ValidationError if any field is invalid.
func ValidateForm(f RecordForm) (RecordForm, error) {
	f = NormalizeForm(f)

	err := formValidator.Struct(f)
	if err == nil {
		return f, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return f, errors.Wrap(err, "validate record form")
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		msg := msgRequired
		if fe.Tag() == "oneof" {
			msg = msgInvalidStatus
		}
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return f, ve
}
