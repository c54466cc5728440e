// Package validate wraps go-playground/validator with the message
// mapping used by the DTO boundary: each failing field resolves to the
// field-specific rule text the API promises.
package validate

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/simple-school/school-security/pkg/errors"
)

var v *validator.Validate

func init() {
	v = validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

// Struct validates s against its tags and translates the first failure
// into a VALIDATION_FAILED error. Messages are looked up first by
// "Field.tag", then by "Field"; unmapped failures fall back to the
// validator's own text.
func Struct(s interface{}, messages map[string]string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
			return errors.New(errors.ErrCodeValidationFailed, msg)
		}
		if msg, ok := messages[fe.StructField()]; ok {
			return errors.New(errors.ErrCodeValidationFailed, msg)
		}
		return errors.New(errors.ErrCodeValidationFailed, fe.Error())
	}

	return errors.InternalWrap(err, "validation failed")
}
