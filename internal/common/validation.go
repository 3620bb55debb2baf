package common

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator collects validation errors across fields. Rules for one field stop
// at the first failure; every field is always checked.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
			break
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Messages returns the bare rule messages in the order they were collected.
func (v *Validator) Messages() []string {
	out := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		out = append(out, err.Message)
	}
	return out
}

// Error returns a combined error wrapping ErrValidation, or nil.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, v.ErrorMessage())
}

// ErrorMessage returns a combined error message as string
func (v *Validator) ErrorMessage() string {
	if !v.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", true
		}
		return *v, true
	case nil:
		return "", true
	}
	return "", false
}

// Required fails on nil and on the empty string. Whitespace is content.
func Required(message string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		if s, ok := stringValue(value); ok && s == "" {
			return &ValidationError{Field: fieldName, Value: value, Message: message}
		}
		return nil
	}
}

// MinLength counts runes of the raw value.
func MinLength(min int, message string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		s, ok := stringValue(value)
		if !ok {
			return nil
		}
		if utf8.RuneCountInString(s) < min {
			return &ValidationError{Field: fieldName, Value: value, Message: message}
		}
		return nil
	}
}

// Date passes empty values and values parseable by one of layouts.
func Date(message string, layouts ...string) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		s, ok := stringValue(value)
		if !ok {
			return &ValidationError{Field: fieldName, Value: value, Message: message}
		}
		if s == "" {
			return nil
		}
		if _, err := ParseDate(s, layouts...); err != nil {
			return &ValidationError{Field: fieldName, Value: value, Message: message}
		}
		return nil
	}
}

var errNoLayout = errors.New("no layout matched")

// ParseDate tries layouts in order on the trimmed value.
func ParseDate(s string, layouts ...string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, errNoLayout)
}
