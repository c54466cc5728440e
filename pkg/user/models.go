package user

import (
	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/errors"
	"github.com/simple-school/school-security/pkg/permission"
	"github.com/simple-school/school-security/pkg/validate"
)

// User is the stored representation of an account. PasswordHash holds
// the bcrypt hash, never the plaintext.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Permissions  []string
}

// UserDto is the transfer representation. The password is write-only:
// it is accepted on input and never echoed back.
type UserDto struct {
	ID          *uuid.UUID                 `json:"id"`
	Username    *string                    `json:"username" validate:"omitempty,notblank,min=2"`
	Password    *string                    `json:"password,omitempty" validate:"omitempty,notblank"`
	Permissions []permission.PermissionDto `json:"permissions"`
}

const (
	msgUsernameRequired = "The user's name must not be null and must contain at least one non-whitespace character"
	msgUsernameBlank    = "The user's name must contain at least one non-whitespace character. Can be null"
	msgUsernameTooShort = "The user's name must consist of at least two characters"
	msgPasswordRequired = "The user's password must not be null and must contain at least one non-whitespace character"
	msgPasswordBlank    = "The user's password must contain at least one non-whitespace character. Can be null"
	msgPermissionsNull  = "The user's permission set must not be null"
)

// Validate checks the DTO at the API boundary; full selects the
// create/replace rules over the patch rules.
func (d UserDto) Validate(full bool) error {
	if full {
		if d.Username == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgUsernameRequired)
		}
		if d.Password == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgPasswordRequired)
		}
		if d.Permissions == nil {
			return errors.New(errors.ErrCodeValidationFailed, msgPermissionsNull)
		}
		return validate.Struct(d, map[string]string{
			"Username.notblank": msgUsernameRequired,
			"Username.min":      msgUsernameTooShort,
			"Password.notblank": msgPasswordRequired,
		})
	}
	return validate.Struct(d, map[string]string{
		"Username.notblank": msgUsernameBlank,
		"Username.min":      msgUsernameTooShort,
		"Password.notblank": msgPasswordBlank,
	})
}
