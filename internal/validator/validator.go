package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"

	ierr "github.com/servicehq/servicehub/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequest validates a request struct against its field tags and maps
// failures into the application error taxonomy.
func ValidateRequest(req any) error {
	if err := GetValidator().Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			details := make(map[string]any, len(verrs))
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			return ierr.WithError(err).
				WithHint("Request validation failed").
				WithReportableDetails(details).
				Mark(ierr.ErrValidation)
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}
	return nil
}
