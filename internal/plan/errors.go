package plan

import (
	"errors"
	"fmt"

	"github.com/conn-castle/expofast/internal/messages"
)

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Answer fields that can fail validation.
const (
	FieldProjectName    = "project name"
	FieldPackageManager = "package manager"
	FieldLanguage       = "language"
)

// ValidationError reports an answer that cannot be turned into a Plan.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf(messages.ValidationErrorFmt, e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
