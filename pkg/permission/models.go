package permission

import (
	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/validate"
)

// Permission is the stored representation of a named permission. The
// name doubles as the identifier.
type Permission struct {
	Name        string
	Description *string
}

// PermissionDto is the transfer representation. A nil field is absent
// and preserved on patch.
type PermissionDto struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Description *string `json:"description"`
}

const msgNameRequired = "The permission name must not be null and must contain at least one non-whitespace character"

// Validate checks the DTO at the API boundary; full selects the
// create/replace rules. Patch carries no constraints.
func (d PermissionDto) Validate(full bool) error {
	if !full {
		return nil
	}
	if d.Name == nil {
		return errors.New(errors.ErrCodeValidationFailed, msgNameRequired)
	}
	return validate.Struct(d, map[string]string{"Name": msgNameRequired})
}
