package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// maxBodyBytes caps request bodies on every JSON endpoint
const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// decodeAndValidate reads a JSON body into dst and runs the validator.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondProblem(w, status, getErrorType(status), message)
}

func respondProblem(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errorType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusServiceUnavailable:
		return domain.ErrorTypeSettingsUnavailable
	default:
		return domain.ErrorTypeInternal
	}
}

var notFoundErrors = []error{
	service.ErrNotFound,
	service.ErrEstimateNotFound,
	service.ErrBrandNotFound,
	service.ErrCatalogItemNotFound,
	service.ErrFixtureMappingMissing,
	service.ErrRateNotFound,
	service.ErrProjectNotFound,
	service.ErrWashroomNotFound,
	service.ErrServiceNotSelected,
	service.ErrFixtureNotPlaced,
	service.ErrCostItemNotFound,
	service.ErrQuotationNotFound,
}

// respondServiceError maps service and costing errors to problem responses.
// Anything unrecognised is logged and reported as a 500 with action as the detail.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, costing.ErrMissingRequiredField):
		respondProblem(w, http.StatusBadRequest, domain.ErrorTypeMissingField, err.Error())
	case errors.Is(err, costing.ErrInvalidMarginValue):
		respondProblem(w, http.StatusBadRequest, domain.ErrorTypeInvalidMargin, "Margin percentage must not be negative")
	case errors.Is(err, costing.ErrInvalidTaxValue):
		respondProblem(w, http.StatusBadRequest, domain.ErrorTypeInvalidTax, "GST percentage must not be negative")
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidCostCategory):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateBrand), errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, costing.ErrSettingsUnavailable):
		logger.Error("pricing data unavailable", zap.String("action", action), zap.Error(err))
		respondWithError(w, http.StatusServiceUnavailable, "Pricing data is currently unavailable. Please try again later.")
	default:
		for _, nf := range notFoundErrors {
			if errors.Is(err, nf) {
				respondWithError(w, http.StatusNotFound, err.Error())
				return
			}
		}
		logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// parseUUIDParam reads a UUID path parameter, responding 400 when it is malformed
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID format", label))
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads page and pageSize; the service clamps them
func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return page, pageSize
}
