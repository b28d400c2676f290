package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// limits holds the numeric options checked at Build.
type limits struct {
	MaxRedirects int `validate:"gte=0,lte=100"`
	Concurrency  int `validate:"gte=0"`
}

// FieldError describes a single option that failed validation.
type FieldError struct {
	Field string
	Rule  string
	Value any
}

// FieldErrors is returned by [Build] when option values are out of range.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = fmt.Sprintf("%s: failed %s (got %v)", f.Field, f.Rule, f.Value)
	}
	return strings.Join(parts, "; ")
}

func validateLimits(l limits) error {
	if err := validate.Struct(l); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		fields := make(FieldErrors, 0, len(verrors))
		for _, verror := range verrors {
			rule := verror.Tag()
			if verror.Param() != "" {
				rule += "=" + verror.Param()
			}
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Rule:  rule,
				Value: verror.Value(),
			})
		}
		return fields
	}

	return nil
}
