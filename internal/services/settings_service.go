package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// Settings errors.
var (
	ErrNegativeRate        = errors.New("rates and thresholds must be non-negative")
	ErrUnknownDefaultClass = errors.New("default VAT rate class is not configured")
)

// Enumerated setting keys. Each pricing section is stored as a JSON document
// under its own key; there is no generic field-merge update path.
const (
	SettingKeyTax           = "pricing.tax"
	SettingKeyServiceCharge = "pricing.service_charge"
	SettingKeyDelivery      = "pricing.delivery"
)

// TaxSettings is the tax section of the pricing configuration.
type TaxSettings struct {
	VatRates            map[models.VatRateClass]models.VatRate `json:"vat_rates"`
	DefaultVatRateClass models.VatRateClass                    `json:"default_vat_rate_class"`
	VatInclusive        bool                                   `json:"vat_inclusive"`
	Currency            string                                 `json:"currency"`
}

// SettingsService owns the pricing configuration. The core never mutates the
// rules; it fetches a value snapshot once per request and passes it around.
type SettingsService interface {
	GetPricingRules() (models.PricingRules, error)
	UpdateTaxSettings(settings TaxSettings) (models.PricingRules, error)
	UpdateServiceChargeSettings(settings models.ServiceChargeRules) (models.PricingRules, error)
	UpdateDeliverySettings(settings models.DeliveryFeeRules) (models.PricingRules, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(settingsRepo repositories.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

// defaultTaxSettings returns the UK-style defaults applied until an admin
// configures the tax section.
func defaultTaxSettings() TaxSettings {
	return TaxSettings{
		VatRates: map[models.VatRateClass]models.VatRate{
			models.VatRateClassStandard: {RatePercent: decimal.NewFromInt(20), Description: "Standard rate"},
			models.VatRateClassReduced:  {RatePercent: decimal.NewFromInt(5), Description: "Reduced rate"},
			models.VatRateClassZero:     {RatePercent: decimal.Zero, Description: "Zero rate"},
		},
		DefaultVatRateClass: models.VatRateClassStandard,
		VatInclusive:        true,
		Currency:            "GBP",
	}
}

func defaultServiceChargeSettings() models.ServiceChargeRules {
	return models.ServiceChargeRules{Enabled: false, RatePercent: decimal.NewFromInt(10)}
}

func defaultDeliverySettings() models.DeliveryFeeRules {
	return models.DeliveryFeeRules{
		Amount:             decimal.RequireFromString("3.99"),
		FreeAboveThreshold: decimal.NewFromInt(25),
	}
}

// loadSection unmarshals the JSON stored under key into dst, leaving dst
// untouched (the caller's default) when the key has never been set.
func (s *settingsService) loadSection(key string, dst interface{}) error {
	setting, err := s.settingsRepo.GetSetting(key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load setting %q: %w", key, err)
	}
	if setting.SettingValue == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(*setting.SettingValue), dst); err != nil {
		return fmt.Errorf("corrupt setting %q: %w", key, err)
	}
	return nil
}

func (s *settingsService) storeSection(key string, section interface{}, description string) error {
	payload, err := json.Marshal(section)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}
	value := string(payload)
	if _, err := s.settingsRepo.UpsertSetting(key, value, &description); err != nil {
		return fmt.Errorf("failed to store setting %q: %w", key, err)
	}
	return nil
}

func (s *settingsService) GetPricingRules() (models.PricingRules, error) {
	tax := defaultTaxSettings()
	serviceCharge := defaultServiceChargeSettings()
	delivery := defaultDeliverySettings()

	if err := s.loadSection(SettingKeyTax, &tax); err != nil {
		return models.PricingRules{}, err
	}
	if err := s.loadSection(SettingKeyServiceCharge, &serviceCharge); err != nil {
		return models.PricingRules{}, err
	}
	if err := s.loadSection(SettingKeyDelivery, &delivery); err != nil {
		return models.PricingRules{}, err
	}

	return models.PricingRules{
		VatRates:            tax.VatRates,
		DefaultVatRateClass: tax.DefaultVatRateClass,
		VatInclusive:        tax.VatInclusive,
		ServiceCharge:       serviceCharge,
		DeliveryFee:         delivery,
		Currency:            tax.Currency,
	}, nil
}

// ValidateTaxSettings checks the tax section for structural mistakes before
// it is stored. Exported for reuse by the settings handler tests.
func ValidateTaxSettings(settings TaxSettings) error {
	if len(settings.VatRates) == 0 {
		return fmt.Errorf("%w: no VAT rates given", ErrUnknownDefaultClass)
	}
	for class, rate := range settings.VatRates {
		if !models.IsValidVatRateClass(string(class)) {
			return fmt.Errorf("%w: %q", ErrInvalidRateClass, class)
		}
		if rate.RatePercent.IsNegative() {
			return fmt.Errorf("%w: VAT rate for class %q is %s", ErrNegativeRate, class, rate.RatePercent)
		}
	}
	if _, ok := settings.VatRates[settings.DefaultVatRateClass]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDefaultClass, settings.DefaultVatRateClass)
	}
	return nil
}

func (s *settingsService) UpdateTaxSettings(settings TaxSettings) (models.PricingRules, error) {
	if err := ValidateTaxSettings(settings); err != nil {
		return models.PricingRules{}, err
	}
	if settings.Currency == "" {
		settings.Currency = defaultTaxSettings().Currency
	}
	if err := s.storeSection(SettingKeyTax, settings, "VAT configuration"); err != nil {
		return models.PricingRules{}, err
	}
	return s.GetPricingRules()
}

func (s *settingsService) UpdateServiceChargeSettings(settings models.ServiceChargeRules) (models.PricingRules, error) {
	if settings.RatePercent.IsNegative() {
		return models.PricingRules{}, fmt.Errorf("%w: service charge rate is %s", ErrNegativeRate, settings.RatePercent)
	}
	if err := s.storeSection(SettingKeyServiceCharge, settings, "Service charge configuration"); err != nil {
		return models.PricingRules{}, err
	}
	return s.GetPricingRules()
}

func (s *settingsService) UpdateDeliverySettings(settings models.DeliveryFeeRules) (models.PricingRules, error) {
	if settings.Amount.IsNegative() || settings.FreeAboveThreshold.IsNegative() {
		return models.PricingRules{}, fmt.Errorf("%w: delivery fee %s, threshold %s", ErrNegativeRate, settings.Amount, settings.FreeAboveThreshold)
	}
	if err := s.storeSection(SettingKeyDelivery, settings, "Delivery fee configuration"); err != nil {
		return models.PricingRules{}, err
	}
	return s.GetPricingRules()
}
