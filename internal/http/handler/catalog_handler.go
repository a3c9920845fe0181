package handler

import (
	"net/http"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogHandler handles brands, catalog items and fixture mappings
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListActiveBrands godoc
// @Summary List brands offered in the calculator
// @Tags Brands
// @Produce json
// @Success 200 {array} domain.BrandDTO
// @Router /brands [get]
func (h *CatalogHandler) ListActiveBrands(w http.ResponseWriter, r *http.Request) {
	h.listBrands(w, r, true)
}

// ListBrands godoc
// @Summary List all brands
// @Tags Brands
// @Produce json
// @Success 200 {array} domain.BrandDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/brands [get]
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	h.listBrands(w, r, false)
}

func (h *CatalogHandler) listBrands(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	brands, err := h.catalogService.ListBrands(r.Context(), activeOnly)
	if err != nil {
		respondServiceError(w, h.logger, err, "list brands")
		return
	}
	respondJSON(w, http.StatusOK, brands)
}

// CreateBrand godoc
// @Summary Create a brand
// @Tags Brands
// @Accept json
// @Produce json
// @Param request body domain.CreateBrandRequest true "Brand"
// @Success 201 {object} domain.BrandDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/brands [post]
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBrandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	brand, err := h.catalogService.CreateBrand(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create brand")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/brands/"+brand.ID.String())
	respondJSON(w, http.StatusCreated, brand)
}

// DeleteBrand godoc
// @Summary Delete a brand
// @Tags Brands
// @Param id path string true "Brand ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/brands/{id} [delete]
func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "brand")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteBrand(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete brand")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItems godoc
// @Summary List catalog items
// @Tags Catalog
// @Produce json
// @Param category query string false "Filter by category"
// @Param brandId query string false "Filter by brand" format(uuid)
// @Success 200 {array} domain.CatalogItemDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/catalog [get]
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := repository.CatalogFilter{Category: r.URL.Query().Get("category")}
	if brand := r.URL.Query().Get("brandId"); brand != "" {
		brandID, err := uuid.Parse(brand)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid brand ID format")
			return
		}
		filter.BrandID = &brandID
	}

	items, err := h.catalogService.ListItems(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "list catalog items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CreateItem godoc
// @Summary Create a catalog item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.CreateCatalogItemRequest true "Catalog item"
// @Success 201 {object} domain.CatalogItemDTO
// @Failure 404 {object} domain.APIError "Brand not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/catalog [post]
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCatalogItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalogService.CreateItem(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create catalog item")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/catalog/"+item.ID.String())
	respondJSON(w, http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update a catalog item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Catalog item ID" format(uuid)
// @Param request body domain.UpdateCatalogItemRequest true "Catalog item"
// @Success 200 {object} domain.CatalogItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/catalog/{id} [put]
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "catalog item")
	if !ok {
		return
	}

	var req domain.UpdateCatalogItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalogService.UpdateItem(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update catalog item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete a catalog item
// @Tags Catalog
// @Param id path string true "Catalog item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/catalog/{id} [delete]
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "catalog item")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete catalog item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFixtureMappings godoc
// @Summary List fixture flag mappings
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.FixtureMappingDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/fixture-mappings [get]
func (h *CatalogHandler) ListFixtureMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.catalogService.ListFixtureMappings(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list fixture mappings")
		return
	}
	respondJSON(w, http.StatusOK, mappings)
}

// UpsertFixtureMappings godoc
// @Summary Create or repoint fixture flag mappings
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body domain.UpsertFixtureMappingsRequest true "Mappings"
// @Success 200 {array} domain.FixtureMappingDTO
// @Failure 404 {object} domain.APIError "Catalog item not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/fixture-mappings [put]
func (h *CatalogHandler) UpsertFixtureMappings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertFixtureMappingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mappings, err := h.catalogService.UpsertFixtureMappings(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "save fixture mappings")
		return
	}
	respondJSON(w, http.StatusOK, mappings)
}

// DeleteFixtureMapping godoc
// @Summary Delete a fixture flag mapping
// @Tags Catalog
// @Param flagKey path string true "Flag key, e.g. electrical.ledMirror"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/fixture-mappings/{flagKey} [delete]
func (h *CatalogHandler) DeleteFixtureMapping(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.DeleteFixtureMapping(r.Context(), chi.URLParam(r, "flagKey")); err != nil {
		respondServiceError(w, h.logger, err, "delete fixture mapping")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
