package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validation error types, used both server-side and by the wizard engine.
const (
	ErrRequired     = "required"
	ErrInvalidField = "invalid_field"
	ErrInvalidEmail = "invalid_email"
	ErrOutOfRange   = "out_of_range"
	ErrXSSDetected  = "unsafe_content"
)

// EmailPattern matches the permissive address shape used across both
// wizard flows: something@something.something with no whitespace.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message, errType string) ValidationError {
	return ValidationError{Field: field, Message: message, Type: errType}
}

// ValidationErrors aggregates every failing field of one check pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasField reports whether some error concerns the named field.
func (e ValidationErrors) HasField(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// SecuritySanitizer rejects submitted text that carries HTML payloads.
type SecuritySanitizer struct {
	policy *bluemonday.Policy
}

func NewSecuritySanitizer() *SecuritySanitizer {
	return &SecuritySanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *SecuritySanitizer) SanitizeString(input string) string {
	return s.policy.Sanitize(input)
}

// CheckStrings returns a validation error for every value the strict
// policy would alter, meaning the input contained markup.
func (s *SecuritySanitizer) CheckStrings(fields map[string]string) ValidationErrors {
	var errs ValidationErrors
	for field, value := range fields {
		if value == "" {
			continue
		}
		if s.policy.Sanitize(value) != value {
			errs = append(errs, NewValidationError(field, "content contains potentially unsafe HTML", ErrXSSDetected))
		}
	}
	return errs
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
		_ = validatorInst.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			return EmailPattern.MatchString(strings.TrimSpace(value))
		})
		_ = validatorInst.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			_, err := time.Parse("2006-01-02", value)
			return err == nil
		})
	})
	return validatorInst
}

// ValidateStruct runs go-playground/validator over the model and maps its
// errors into the project's ValidationErrors shape.
func ValidateStruct(model interface{}) error {
	if err := getValidator().Struct(model); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			mapped := make(ValidationErrors, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				mapped = append(mapped, ValidationError{
					Field:   fieldErr.Field(),
					Message: formatValidationMessage(fieldErr),
					Type:    ErrInvalidField,
					Value:   fieldErr.Value(),
				})
			}
			return mapped
		}
		return err
	}
	return nil
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "field is required"
	case "max":
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "simple_email":
		return "must be a valid email address"
	case "iso_date":
		return "must be a valid date (YYYY-MM-DD)"
	default:
		return err.Error()
	}
}
