package handler

import (
	"net/http"
	"strconv"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/service"
	"go.uber.org/zap"
)

// QuotationHandler handles quotation generation and download
type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

// NewQuotationHandler creates a new quotation handler instance
func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// Generate godoc
// @Summary Generate a quotation
// @Description Costs the project and renders a numbered quotation. The project is not modified.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Param request body domain.GenerateQuotationRequest false "Terms and validity"
// @Success 201 {object} domain.GenerateQuotationResponse
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/quotations [post]
func (h *QuotationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	var req domain.GenerateQuotationRequest
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := decodeOptional(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.GenerateQuotation(r.Context(), projectID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "generate quotation")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, quotation)
}

// ListByProject godoc
// @Summary List a project's quotations
// @Tags Quotations
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {array} domain.QuotationDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/projects/{id}/quotations [get]
func (h *QuotationHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "id", "project")
	if !ok {
		return
	}

	quotations, err := h.quotationService.ListByProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list quotations")
		return
	}
	respondJSON(w, http.StatusOK, quotations)
}

// GetByID godoc
// @Summary Get a quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// GetHTML godoc
// @Summary Get the rendered quotation
// @Tags Quotations
// @Produce html
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {string} string
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/html [get]
func (h *QuotationHandler) GetHTML(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}

	html, err := h.quotationService.GetHTML(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quotation")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// ExportExcel godoc
// @Summary Download the quotation workbook
// @Tags Quotations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/xlsx [get]
func (h *QuotationHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}

	data, filename, err := h.quotationService.ExportExcel(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "export quotation")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
