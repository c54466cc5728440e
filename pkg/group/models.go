package group

import (
	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/validate"
)

// Group is the stored representation of a student group.
type Group struct {
	ID   uuid.UUID
	Name string
}

// GroupDto is the transfer representation. A nil field is absent and
// preserved on patch.
type GroupDto struct {
	ID   *uuid.UUID `json:"id"`
	Name *string    `json:"name" validate:"omitempty,notblank"`
}

const (
	msgNameRequired = "The group name must not be null and must contain at least one non-whitespace character"
	msgNameBlank    = "The group name must contain at least one non-whitespace character. Can be null"
)

// Validate checks the DTO at the API boundary; full selects the
// create/replace rules over the patch rules.
func (d GroupDto) Validate(full bool) error {
	if full {
		if d.Name == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgNameRequired)
		}
		return validate.Struct(d, map[string]string{"Name": msgNameRequired})
	}
	return validate.Struct(d, map[string]string{"Name": msgNameBlank})
}
