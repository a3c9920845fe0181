package costing

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField is matched by every MissingRequiredFieldError.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidMarginValue is returned for negative margin percentages.
	ErrInvalidMarginValue = errors.New("invalid margin value")

	// ErrInvalidTaxValue is returned for negative GST percentages.
	ErrInvalidTaxValue = errors.New("invalid tax value")

	// ErrSettingsUnavailable means pricing settings or rate data could not
	// be loaded. Calculations never fall back to default rates.
	ErrSettingsUnavailable = errors.New("settings unavailable")
)

// MissingRequiredFieldError names the input that blocked a calculation.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

// Is lets callers use errors.Is(err, ErrMissingRequiredField).
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}
