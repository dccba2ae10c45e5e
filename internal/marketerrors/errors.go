package marketerrors

import (
	"errors"
	"strings"
)

// Repository-level errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoBids          = errors.New("no bids found for product")
)

// business logic errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid or missing fields")
	ErrBidTooLow       = errors.New("bid amount too low")
)

// ValidationError lists the JSON names of the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is lets errors.Is(err, ErrInvalidInput) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidFields returns the offending field names carried by err, if any.
func InvalidFields(err error) []string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return nil
}
