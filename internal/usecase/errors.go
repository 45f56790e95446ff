package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrInsufficientData marks a salary recompute skipped for lack of scored
	// games. Reported, not failed.
	ErrInsufficientData      = errors.New("insufficient data")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func isInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
