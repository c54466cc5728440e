package course

import (
	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/validate"
)

// Course is the stored representation of a course.
type Course struct {
	ID          uuid.UUID
	Name        string
	Description *string
}

// CourseDto is the transfer representation. Pointer fields carry patch
// semantics: nil means "absent, preserve the stored value".
type CourseDto struct {
	ID          *uuid.UUID `json:"id"`
	Name        *string    `json:"name" validate:"omitempty,notblank"`
	Description *string    `json:"description"`
}

const (
	msgNameRequired = "The course name must not be null and must contain at least one non-whitespace character"
	msgNameBlank    = "The course name must contain at least one non-whitespace character. Can be null"
)

// Validate checks the DTO at the API boundary. full applies the
// create/replace rules (required fields), otherwise the patch rules
// (non-blank only if present).
func (d CourseDto) Validate(full bool) error {
	if full {
		if d.Name == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgNameRequired)
		}
		return validate.Struct(d, map[string]string{"Name": msgNameRequired})
	}
	return validate.Struct(d, map[string]string{"Name": msgNameBlank})
}
