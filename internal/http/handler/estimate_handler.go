package handler

import (
	"net/http"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/service"
	"go.uber.org/zap"
)

// EstimateHandler serves the public calculator and the admin lead list
type EstimateHandler struct {
	estimateService *service.EstimateService
	logger          *zap.Logger
}

// NewEstimateHandler creates a new estimate handler instance
func NewEstimateHandler(estimateService *service.EstimateService, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

// Calculate godoc
// @Summary Calculate an estimate
// @Description Price a completed calculator without saving it
// @Tags Estimates
// @Accept json
// @Produce json
// @Param request body domain.EstimateRequest true "Calculator state"
// @Success 200 {object} costing.EstimateResult
// @Failure 400 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Router /estimates/calculate [post]
func (h *EstimateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.estimateService.CalculateEstimate(r.Context(), req.State())
	if err != nil {
		respondServiceError(w, h.logger, err, "calculate estimate")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Submit godoc
// @Summary Submit an estimate
// @Description Price a completed calculator and save it as a lead. A failed
// @Description save still returns the calculation with saveStatus DATABASE_ERROR.
// @Tags Estimates
// @Accept json
// @Produce json
// @Param request body domain.EstimateRequest true "Calculator state"
// @Success 201 {object} domain.SubmitEstimateResponse
// @Success 200 {object} domain.SubmitEstimateResponse "Calculated but not saved"
// @Failure 400 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Router /estimates [post]
func (h *EstimateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.estimateService.Submit(r.Context(), req.State())
	if err != nil {
		respondServiceError(w, h.logger, err, "submit estimate")
		return
	}

	status := http.StatusCreated
	if resp.SaveStatus != domain.SaveStatusSaved {
		status = http.StatusOK
	}
	respondJSON(w, status, resp)
}

// List godoc
// @Summary List estimates
// @Description Paginated customer estimates, newest first
// @Tags Estimates
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by customer name, email or mobile"
// @Param sortBy query string false "Sort field" Enums(createdAt, total, customerName)
// @Param sortOrder query string false "Sort order" Enums(asc, desc) default(desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.EstimateDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/estimates [get]
func (h *EstimateHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	sort := repository.DefaultSortConfig()
	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		sort.Field = sortBy
	}
	if sortOrder := r.URL.Query().Get("sortOrder"); sortOrder != "" {
		sort.Order = repository.ParseSortOrder(sortOrder)
	}

	result, err := h.estimateService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"), sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list estimates")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get estimate by ID
// @Tags Estimates
// @Produce json
// @Param id path string true "Estimate ID" format(uuid)
// @Success 200 {object} domain.EstimateDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/estimates/{id} [get]
func (h *EstimateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "estimate")
	if !ok {
		return
	}

	estimate, err := h.estimateService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get estimate")
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}
