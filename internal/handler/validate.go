package handler

// REQUEST VALIDATION:
// Each endpoint decodes its body into a typed request struct carrying
// `validate` tags, then runs it through go-playground/validator. Failures
// come back as one enumerated list of field/message pairs with status 400,
// before any service or store call.

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; the validator caches struct metadata,
// so a single instance is both the documented usage and the fast one.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json tag names, not Go field names — clients know "email",
	// not "Email".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// checkRequest validates a decoded request struct and returns the field
// failures, nil if the request is valid.
func checkRequest(req any) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation error (e.g. a nil pointer passed in) — surface it
		// as a single generic entry rather than panicking.
		return []FieldError{{Field: "", Message: "invalid request"}}
	}

	fieldErrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return fieldErrs
}

// fieldMessage translates a validator tag into a client-facing message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "please include a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// dateFormats are the accepted shapes for from/to dates. Browser clients
// send plain calendar dates; RFC 3339 is accepted for API callers that
// timestamp precisely.
var dateFormats = []string{"2006-01-02", time.RFC3339}

// parseDate parses a request date string in any accepted format.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}
