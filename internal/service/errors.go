package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrPersistenceFailure is returned when a calculated result could not be stored.
	// The calculation itself is still valid.
	ErrPersistenceFailure = errors.New("persistence failure")

	ErrEstimateNotFound      = errors.New("estimate not found")
	ErrBrandNotFound         = errors.New("brand not found")
	ErrCatalogItemNotFound   = errors.New("catalog item not found")
	ErrFixtureMappingMissing = errors.New("fixture mapping not found")
	ErrRateNotFound          = errors.New("rate not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrWashroomNotFound      = errors.New("washroom not found")
	ErrServiceNotSelected    = errors.New("service not selected for washroom")
	ErrFixtureNotPlaced      = errors.New("fixture not placed in washroom")
	ErrCostItemNotFound      = errors.New("cost item not found")
	ErrQuotationNotFound     = errors.New("quotation not found")

	// ErrDuplicateBrand is returned when a brand name is already taken
	ErrDuplicateBrand = errors.New("brand with this name already exists")

	// ErrInvalidCostCategory is returned for cost items outside execution, vendor and additional
	ErrInvalidCostCategory = errors.New("invalid cost category")
)
