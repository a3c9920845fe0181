package domain

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to user-facing messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation          = "validation_error"
	ErrorTypeMissingField        = "missing_required_field"
	ErrorTypeInvalidMargin       = "invalid_margin_value"
	ErrorTypeInvalidTax          = "invalid_tax_value"
	ErrorTypeSettingsUnavailable = "settings_unavailable"
	ErrorTypeNotFound            = "not_found"
	ErrorTypeBadRequest          = "bad_request"
	ErrorTypeConflict            = "conflict"
	ErrorTypeUnauthorized        = "unauthorized"
	ErrorTypeInternal            = "internal_error"
)
