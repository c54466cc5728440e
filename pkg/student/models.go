package student

import (
	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/course"
	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/group"
	"github.com/simple-school/school-security/pkg/validate"
)

// Student is the stored representation of a student. GroupID is nil for
// students not assigned to any group.
type Student struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	GroupID   *uuid.UUID
	CourseIDs []uuid.UUID
}

// StudentDto is the transfer representation. A nil field is absent and
// preserved on patch. Group and courses are embedded as full DTOs.
type StudentDto struct {
	ID        *uuid.UUID         `json:"id"`
	FirstName *string            `json:"firstName" validate:"omitempty,notblank,min=2"`
	LastName  *string            `json:"lastName" validate:"omitempty,notblank,min=2"`
	Group     *group.GroupDto    `json:"group"`
	Courses   []course.CourseDto `json:"courses"`
}

const (
	msgFirstRequired = "The student's first name must not be null and must contain at least one non-whitespace character"
	msgFirstBlank    = "The student's first name must contain at least one non-whitespace character. Can be null"
	msgFirstTooShort = "The student's first name must consist of at least two characters"
	msgLastRequired  = "The student's last name must not be null and must contain at least one non-whitespace character"
	msgLastBlank     = "The student's last name must contain at least one non-whitespace character. Can be null"
	msgLastTooShort  = "The student's last name must consist of at least two characters"
)

// Validate checks the DTO at the API boundary; full selects the
// create/replace rules over the patch rules.
func (d StudentDto) Validate(full bool) error {
	if full {
		if d.FirstName == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgFirstRequired)
		}
		if d.LastName == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgLastRequired)
		}
		return validate.Struct(d, map[string]string{
			"FirstName.notblank": msgFirstRequired,
			"FirstName.min":      msgFirstTooShort,
			"LastName.notblank":  msgLastRequired,
			"LastName.min":       msgLastTooShort,
		})
	}
	return validate.Struct(d, map[string]string{
		"FirstName.notblank": msgFirstBlank,
		"FirstName.min":      msgFirstTooShort,
		"LastName.notblank":  msgLastBlank,
		"LastName.min":       msgLastTooShort,
	})
}
