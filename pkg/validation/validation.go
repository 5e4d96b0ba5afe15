// Package validation holds the field rules shared by registration, profile
// edits and content creation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 6
	MaxBioLength      = 500
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Username reports whether s is 3-20 letters, digits or underscores.
func Username(s string) bool {
	return usernamePattern.MatchString(s)
}

// Password reports whether s is long enough to be accepted.
func Password(s string) bool {
	return len(s) >= MinPasswordLength
}

// Required reports whether s has content after trimming.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Sanitize trims surrounding whitespace.
func Sanitize(s string) string {
	return strings.TrimSpace(s)
}

// New returns a validator with the forum specific tags registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return Username(fl.Field().String())
	})
	_ = v.RegisterValidation("forumemail", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return Required(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return jsonName(field.Tag.Get("json"), field.Name)
	})
	return v
}

// Message renders the first failed rule of err in a form fit for display.
func Message(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		if err == nil {
			return ""
		}
		return err.Error()
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return "username must be 3-20 characters of letters, digits or underscore"
	case "forumemail", "email":
		return "email address is not valid"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

func jsonName(tag, fallback string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
