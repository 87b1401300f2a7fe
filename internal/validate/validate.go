// Package validate checks submitted form fields.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Error codes carried by FieldError.
const (
	CodeRequired = "required"
	CodeTooLong  = "too_long"
	CodeInvalid  = "invalid"
	CodeReserved = "reserved"
)

// ErrInvalidField is matched by every *FieldError.
var ErrInvalidField = errors.New("invalid field")

// Field is a single submitted value and its constraints.
type Field struct {
	Name     string
	Value    string
	Required bool
	// MaxLen is measured in runes; 0 disables the check.
	MaxLen int
}

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Code)
}

// Is lets errors.Is match ErrInvalidField.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Required builds a required field.
func Required(name, value string, maxLen int) Field {
	return Field{Name: name, Value: value, Required: true, MaxLen: maxLen}
}

// Optional builds an optional field.
func Optional(name, value string, maxLen int) Field {
	return Field{Name: name, Value: value, MaxLen: maxLen}
}

// Fields validates fields in order and returns the first failure, or nil.
// Surrounding whitespace does not count as content.
func Fields(fields ...Field) error {
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if f.Required && value == "" {
			return &FieldError{Field: f.Name, Code: CodeRequired, Message: "This field is required."}
		}
		if f.MaxLen > 0 && utf8.RuneCountInString(value) > f.MaxLen {
			return &FieldError{
				Field:   f.Name,
				Code:    CodeTooLong,
				Message: fmt.Sprintf("Ensure this value has at most %d characters.", f.MaxLen),
			}
		}
	}
	return nil
}

// ReservedSlugs cannot be used as note slugs because they collide with
// fixed routes under /notes/.
var ReservedSlugs = map[string]bool{
	"add":  true,
	"done": true,
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Slug validates a note slug. Empty slugs are accepted; callers generate one.
func Slug(name, slug string) error {
	if slug == "" {
		return nil
	}
	if !slugPattern.MatchString(slug) {
		return &FieldError{
			Field:   name,
			Code:    CodeInvalid,
			Message: "Enter a valid slug of lowercase letters, numbers and hyphens.",
		}
	}
	if ReservedSlugs[slug] {
		return &FieldError{Field: name, Code: CodeReserved, Message: "This slug is reserved."}
	}
	return nil
}

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+_-]+$`)

// Username validates an account handle.
func Username(name, username string) error {
	if err := Fields(Required(name, username, 150)); err != nil {
		return err
	}
	if !usernamePattern.MatchString(strings.TrimSpace(username)) {
		return &FieldError{
			Field:   name,
			Code:    CodeInvalid,
			Message: "Enter a valid username. It may contain letters, numbers and @/./+/-/_ characters.",
		}
	}
	return nil
}

// AsFieldError unwraps err into a *FieldError when it is one.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
