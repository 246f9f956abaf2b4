package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CheckRequest validates the struct tags of a decoded request record.
// The first failing field is reported as an InvalidRequest error.
func CheckRequest(resource string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &Error{
		Kind:     KindInvalidRequest,
		Resource: resource,
		Field:    fe.Field(),
		Value:    fe.Value(),
		Msg:      fmt.Sprintf("invalid %s attribute %s: failed %q check", resource, fe.Field(), fe.Tag()),
		Err:      err,
	}
}
