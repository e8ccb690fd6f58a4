package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/services"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingsHandler holds the settings service.
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(ss services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: ss}
}

// bindStrictJSON decodes the request body rejecting unknown fields. Pricing
// sections are updated whole; a typoed field name must fail loudly instead
// of silently keeping the old value.
func bindStrictJSON(c *gin.Context, dst interface{}) bool {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return false
	}
	return true
}

// GetPricingSettings returns the effective pricing rules (stored sections
// merged over defaults).
func (h *SettingsHandler) GetPricingSettings(c *gin.Context) {
	rules, err := h.settingsService.GetPricingRules()
	if err != nil {
		utils.LogError(err, "GetPricingSettings: Error from settingsService.GetPricingRules")
		respondStorageOrInternal(c, err, "Failed to retrieve pricing settings.")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// UpdateTaxSettings replaces the VAT section of the pricing configuration.
func (h *SettingsHandler) UpdateTaxSettings(c *gin.Context) {
	var req services.TaxSettings
	if !bindStrictJSON(c, &req) {
		return
	}

	rules, err := h.settingsService.UpdateTaxSettings(req)
	if err != nil {
		utils.LogError(err, "UpdateTaxSettings: Error from settingsService.UpdateTaxSettings")
		h.respondSettingsError(c, err, "Failed to update tax settings.")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// UpdateServiceChargeSettings replaces the service charge section.
func (h *SettingsHandler) UpdateServiceChargeSettings(c *gin.Context) {
	var req models.ServiceChargeRules
	if !bindStrictJSON(c, &req) {
		return
	}

	rules, err := h.settingsService.UpdateServiceChargeSettings(req)
	if err != nil {
		utils.LogError(err, "UpdateServiceChargeSettings: Error from settingsService.UpdateServiceChargeSettings")
		h.respondSettingsError(c, err, "Failed to update service charge settings.")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// UpdateDeliverySettings replaces the delivery fee section.
func (h *SettingsHandler) UpdateDeliverySettings(c *gin.Context) {
	var req models.DeliveryFeeRules
	if !bindStrictJSON(c, &req) {
		return
	}

	rules, err := h.settingsService.UpdateDeliverySettings(req)
	if err != nil {
		utils.LogError(err, "UpdateDeliverySettings: Error from settingsService.UpdateDeliverySettings")
		h.respondSettingsError(c, err, "Failed to update delivery settings.")
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *SettingsHandler) respondSettingsError(c *gin.Context, err error, publicMsg string) {
	switch {
	case errors.Is(err, services.ErrNegativeRate),
		errors.Is(err, services.ErrUnknownDefaultClass),
		errors.Is(err, services.ErrInvalidRateClass):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid pricing configuration.", err.Error()))
	default:
		respondStorageOrInternal(c, err, publicMsg)
	}
}
