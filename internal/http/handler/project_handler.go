package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectHandler handles internal projects, their washrooms, selections,
// cost items and costing
type ProjectHandler struct {
	projectService *service.ProjectService
	costingService *service.ProjectCostingService
	logger         *zap.Logger
}

// NewProjectHandler creates a new project handler instance
func NewProjectHandler(projectService *service.ProjectService, costingService *service.ProjectCostingService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		costingService: costingService,
		logger:         logger,
	}
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by project or client name"
// @Param status query string false "Filter by status" Enums(draft, quoted, approved, in_progress, completed, cancelled)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ProjectDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *domain.ProjectStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ps := domain.ProjectStatus(s)
		status = &ps
	}

	result, err := h.projectService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"), status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list projects")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create a project
// @Description Margin and GST default to the pricing settings when omitted
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project"
// @Success 201 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create project")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/projects/"+project.ID.String())
	respondJSON(w, http.StatusCreated, project)
}

// GetByID godoc
// @Summary Get project with washrooms
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id} [get]
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Update godoc
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.UpdateProjectRequest true "Project"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	var req domain.UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Delete godoc
// @Summary Delete a project
// @Description Removes washrooms, selections and cost items. Quotations are kept.
// @Tags Projects
// @Param id path string true "Project ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddWashroom godoc
// @Summary Add a washroom
// @Tags Washrooms
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.WashroomRequest true "Washroom"
// @Success 201 {object} domain.WashroomDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms [post]
func (h *ProjectHandler) AddWashroom(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	var req domain.WashroomRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	washroom, err := h.projectService.AddWashroom(r.Context(), projectID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "add washroom")
		return
	}
	respondJSON(w, http.StatusCreated, washroom)
}

// UpdateWashroom godoc
// @Summary Update a washroom
// @Description Areas are recomputed from the dimensions unless the ceiling is overridden
// @Tags Washrooms
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param washroomId path string true "Washroom ID" format(uuid)
// @Param request body domain.WashroomRequest true "Washroom"
// @Success 200 {object} domain.WashroomDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms/{washroomId} [put]
func (h *ProjectHandler) UpdateWashroom(w http.ResponseWriter, r *http.Request) {
	projectID, washroomID, ok := h.washroomParams(w, r)
	if !ok {
		return
	}

	var req domain.WashroomRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	washroom, err := h.projectService.UpdateWashroom(r.Context(), projectID, washroomID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update washroom")
		return
	}
	respondJSON(w, http.StatusOK, washroom)
}

// DeleteWashroom godoc
// @Summary Delete a washroom
// @Tags Washrooms
// @Param id path string true "Project ID" format(uuid)
// @Param washroomId path string true "Washroom ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms/{washroomId} [delete]
func (h *ProjectHandler) DeleteWashroom(w http.ResponseWriter, r *http.Request) {
	projectID, washroomID, ok := h.washroomParams(w, r)
	if !ok {
		return
	}

	if err := h.projectService.DeleteWashroom(r.Context(), projectID, washroomID); err != nil {
		respondServiceError(w, h.logger, err, "delete washroom")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetService godoc
// @Summary Select an execution service for a washroom
// @Tags Washrooms
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param washroomId path string true "Washroom ID" format(uuid)
// @Param code path string true "Service or tiling code"
// @Param request body domain.SetWashroomServiceRequest true "Quantity, area and optional rate override"
// @Success 200 {object} domain.WashroomDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms/{washroomId}/services/{code} [put]
func (h *ProjectHandler) SetService(w http.ResponseWriter, r *http.Request) {
	projectID, washroomID, ok := h.washroomParams(w, r)
	if !ok {
		return
	}

	var req domain.SetWashroomServiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	washroom, err := h.projectService.SetService(r.Context(), projectID, washroomID, chi.URLParam(r, "code"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "select service")
		return
	}
	respondJSON(w, http.StatusOK, washroom)
}

// RemoveService godoc
// @Summary Remove a service from a washroom
// @Tags Washrooms
// @Param id path string true "Project ID" format(uuid)
// @Param washroomId path string true "Washroom ID" format(uuid)
// @Param code path string true "Service or tiling code"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms/{washroomId}/services/{code} [delete]
func (h *ProjectHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	projectID, washroomID, ok := h.washroomParams(w, r)
	if !ok {
		return
	}

	if err := h.projectService.RemoveService(r.Context(), projectID, washroomID, chi.URLParam(r, "code")); err != nil {
		respondServiceError(w, h.logger, err, "remove service")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetFixture godoc
// @Summary Place a catalog item in a washroom
// @Tags Washrooms
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param washroomId path string true "Washroom ID" format(uuid)
// @Param itemId path string true "Catalog item ID" format(uuid)
// @Param request body domain.SetWashroomFixtureRequest true "Quantity"
// @Success 200 {object} domain.WashroomDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms/{washroomId}/fixtures/{itemId} [put]
func (h *ProjectHandler) SetFixture(w http.ResponseWriter, r *http.Request) {
	projectID, washroomID, ok := h.washroomParams(w, r)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(w, r, "itemId", "catalog item")
	if !ok {
		return
	}

	var req domain.SetWashroomFixtureRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	washroom, err := h.projectService.SetFixture(r.Context(), projectID, washroomID, itemID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "place fixture")
		return
	}
	respondJSON(w, http.StatusOK, washroom)
}

// RemoveFixture godoc
// @Summary Remove a catalog item from a washroom
// @Tags Washrooms
// @Param id path string true "Project ID" format(uuid)
// @Param washroomId path string true "Washroom ID" format(uuid)
// @Param itemId path string true "Catalog item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/washrooms/{washroomId}/fixtures/{itemId} [delete]
func (h *ProjectHandler) RemoveFixture(w http.ResponseWriter, r *http.Request) {
	projectID, washroomID, ok := h.washroomParams(w, r)
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(w, r, "itemId", "catalog item")
	if !ok {
		return
	}

	if err := h.projectService.RemoveFixture(r.Context(), projectID, washroomID, itemID); err != nil {
		respondServiceError(w, h.logger, err, "remove fixture")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCostItems godoc
// @Summary List cost items with category totals
// @Tags Cost Items
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} domain.CostItemsResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/cost-items [get]
func (h *ProjectHandler) ListCostItems(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	items, err := h.projectService.ListCostItems(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list cost items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CreateCostItem godoc
// @Summary Add a cost item
// @Tags Cost Items
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.CreateCostItemRequest true "Cost item"
// @Success 201 {object} domain.CostItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/cost-items [post]
func (h *ProjectHandler) CreateCostItem(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	var req domain.CreateCostItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.projectService.CreateCostItem(r.Context(), projectID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create cost item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// DeleteCostItem godoc
// @Summary Delete a cost item
// @Tags Cost Items
// @Param id path string true "Project ID" format(uuid)
// @Param itemId path string true "Cost item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/cost-items/{itemId} [delete]
func (h *ProjectHandler) DeleteCostItem(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(w, r, "itemId", "cost item")
	if !ok {
		return
	}

	if err := h.projectService.DeleteCostItem(r.Context(), projectID, itemID); err != nil {
		respondServiceError(w, h.logger, err, "delete cost item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CalculateCosts godoc
// @Summary Calculate project costs
// @Description Overrides replace a service rate in one washroom for this calculation only
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.CalculateProjectCostsRequest false "Execution overrides"
// @Success 200 {object} costing.ProjectCostSummary
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/costs [post]
func (h *ProjectHandler) CalculateCosts(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	var req domain.CalculateProjectCostsRequest
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := decodeOptional(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	summary, err := h.costingService.CalculateProjectCosts(r.Context(), projectID, req.ExecutionOverrides)
	if err != nil {
		respondServiceError(w, h.logger, err, "calculate project costs")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *ProjectHandler) washroomParams(w http.ResponseWriter, r *http.Request) (projectID, washroomID uuid.UUID, ok bool) {
	if projectID, ok = parseUUIDParam(w, r, "id", "project"); !ok {
		return
	}
	washroomID, ok = parseUUIDParam(w, r, "washroomId", "washroom")
	return
}

// decodeOptional decodes a body that may be empty
func decodeOptional(body io.Reader, dst interface{}) error {
	err := json.NewDecoder(body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
