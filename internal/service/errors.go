package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yapress/yapress/internal/metrics"
	"github.com/yapress/yapress/internal/validate"
)

// Service errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrSlugExists         = errors.New("slug already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// SlugTakenError names a slug that another note already uses.
type SlugTakenError struct {
	Slug string
}

func (e *SlugTakenError) Error() string {
	return fmt.Sprintf("slug %q already exists", e.Slug)
}

// Is lets errors.Is match ErrSlugExists.
func (e *SlugTakenError) Is(target error) bool {
	return target == ErrSlugExists
}

// rejectReason labels a validation failure for the rejection metric:
// missing values are "empty", everything else is "invalid".
func rejectReason(err error) string {
	var fe *validate.FieldError
	if errors.As(err, &fe) && fe.Code == validate.CodeRequired {
		return metrics.ReasonEmpty
	}
	return metrics.ReasonInvalid
}

// generateULID generates a unique ID for new entities.
func generateULID() string {
	return ulid.Make().String()
}

func now() time.Time {
	return time.Now().UTC()
}
