package handler

import (
	"net/http"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SettingsHandler handles pricing settings and rate cards
type SettingsHandler struct {
	settingsService *service.SettingsService
	rateService     *service.RateCardService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(settingsService *service.SettingsService, rateService *service.RateCardService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		rateService:     rateService,
		logger:          logger,
	}
}

// ListSettings godoc
// @Summary List pricing settings
// @Tags Settings
// @Produce json
// @Success 200 {array} domain.SettingDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/settings [get]
func (h *SettingsHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update pricing settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateSettingsRequest true "Setting values by key"
// @Success 200 {array} domain.SettingDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/settings [put]
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.settingsService.Update(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// ListServiceRates godoc
// @Summary List execution service rates
// @Tags Rates
// @Produce json
// @Success 200 {array} domain.RateDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/rates/services [get]
func (h *SettingsHandler) ListServiceRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateService.ListServiceRates(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list service rates")
		return
	}
	respondJSON(w, http.StatusOK, rates)
}

// UpsertServiceRate godoc
// @Summary Create or replace a service rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body domain.UpsertRateRequest true "Rate"
// @Success 200 {object} domain.RateDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/rates/services [put]
func (h *SettingsHandler) UpsertServiceRate(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertRateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rate, err := h.rateService.UpsertServiceRate(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "save service rate")
		return
	}
	respondJSON(w, http.StatusOK, rate)
}

// DeleteServiceRate godoc
// @Summary Delete a service rate
// @Tags Rates
// @Param code path string true "Service code"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/rates/services/{code} [delete]
func (h *SettingsHandler) DeleteServiceRate(w http.ResponseWriter, r *http.Request) {
	if err := h.rateService.DeleteServiceRate(r.Context(), chi.URLParam(r, "code")); err != nil {
		respondServiceError(w, h.logger, err, "delete service rate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTilingRates godoc
// @Summary List tiling rates
// @Tags Rates
// @Produce json
// @Success 200 {array} domain.RateDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/rates/tiling [get]
func (h *SettingsHandler) ListTilingRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateService.ListTilingRates(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list tiling rates")
		return
	}
	respondJSON(w, http.StatusOK, rates)
}

// UpsertTilingRate godoc
// @Summary Create or replace a tiling rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body domain.UpsertRateRequest true "Rate"
// @Success 200 {object} domain.RateDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/rates/tiling [put]
func (h *SettingsHandler) UpsertTilingRate(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertRateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rate, err := h.rateService.UpsertTilingRate(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "save tiling rate")
		return
	}
	respondJSON(w, http.StatusOK, rate)
}

// DeleteTilingRate godoc
// @Summary Delete a tiling rate
// @Tags Rates
// @Param code path string true "Tiling code"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/rates/tiling/{code} [delete]
func (h *SettingsHandler) DeleteTilingRate(w http.ResponseWriter, r *http.Request) {
	if err := h.rateService.DeleteTilingRate(r.Context(), chi.URLParam(r, "code")); err != nil {
		respondServiceError(w, h.logger, err, "delete tiling rate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
