package services

import (
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

// firstFieldError turns an ozzo validation result into a single
// *common.ValidationError, reporting the first failing field in order.
func firstFieldError(err error, order ...string) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	for _, field := range order {
		if fe, ok := errs[field]; ok && fe != nil {
			return common.NewValidationError(field, fe.Error())
		}
	}
	for field, fe := range errs {
		if fe != nil {
			return common.NewValidationError(field, fe.Error())
		}
	}
	return nil
}
