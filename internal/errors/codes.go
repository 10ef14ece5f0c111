package errors

import "github.com/cockroachdb/errors"

// Sentinel errors used as marks. Every error returned by the application is
// marked with exactly one of these so callers can classify failures with
// errors.Is without depending on message text.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrAlreadyProcessed = errors.New("already_processed")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrDatabase         = errors.New("database_error")
	ErrInternal         = errors.New("internal_error")
)

// Is reports whether err is marked with target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool    { return errors.Is(err, ErrAlreadyExists) }
func IsAlreadyProcessed(err error) bool { return errors.Is(err, ErrAlreadyProcessed) }
func IsInvalidOperation(err error) bool { return errors.Is(err, ErrInvalidOperation) }
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }
func IsDatabase(err error) bool         { return errors.Is(err, ErrDatabase) }
