package services

import (
	"errors"
	"testing"

	"restaurant_ops_backend/internal/models"
	"restaurant_ops_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// stubSettingsRepo is an in-memory SettingsRepository.
type stubSettingsRepo struct {
	rows map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{rows: map[string]string{}}
}

func (s *stubSettingsRepo) GetSetting(key string) (*models.ApplicationSetting, error) {
	value, ok := s.rows[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.ApplicationSetting{SettingKey: key, SettingValue: &value}, nil
}

func (s *stubSettingsRepo) GetAllSettings() ([]models.ApplicationSetting, error) {
	settings := make([]models.ApplicationSetting, 0, len(s.rows))
	for key, value := range s.rows {
		v := value
		settings = append(settings, models.ApplicationSetting{SettingKey: key, SettingValue: &v})
	}
	return settings, nil
}

func (s *stubSettingsRepo) UpsertSetting(key string, value string, description *string) (*models.ApplicationSetting, error) {
	s.rows[key] = value
	return &models.ApplicationSetting{SettingKey: key, SettingValue: &value, Description: description}, nil
}

func TestGetPricingRulesDefaults(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	rules, err := svc.GetPricingRules()
	if err != nil {
		t.Fatalf("GetPricingRules returned error: %v", err)
	}

	if rules.DefaultVatRateClass != models.VatRateClassStandard {
		t.Errorf("DefaultVatRateClass = %s, want standard", rules.DefaultVatRateClass)
	}
	if !rules.VatInclusive {
		t.Error("VatInclusive = false, want true by default")
	}
	if rules.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP", rules.Currency)
	}
	if rules.ServiceCharge.Enabled {
		t.Error("ServiceCharge.Enabled = true, want disabled by default")
	}
	standard, ok := rules.VatRates[models.VatRateClassStandard]
	if !ok || !standard.RatePercent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("standard VAT rate = %v, want 20", standard.RatePercent)
	}
	if !rules.DeliveryFee.Amount.Equal(decimal.RequireFromString("3.99")) {
		t.Errorf("delivery fee = %s, want 3.99", rules.DeliveryFee.Amount)
	}
	if !rules.DeliveryFee.FreeAboveThreshold.Equal(decimal.NewFromInt(25)) {
		t.Errorf("free-above threshold = %s, want 25", rules.DeliveryFee.FreeAboveThreshold)
	}
}

func TestUpdateTaxSettingsRoundTrip(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	settings := TaxSettings{
		VatRates: map[models.VatRateClass]models.VatRate{
			models.VatRateClassStandard: {RatePercent: decimal.NewFromInt(19)},
			models.VatRateClassZero:     {RatePercent: decimal.Zero},
		},
		DefaultVatRateClass: models.VatRateClassStandard,
		VatInclusive:        false,
		Currency:            "EUR",
	}

	rules, err := svc.UpdateTaxSettings(settings)
	if err != nil {
		t.Fatalf("UpdateTaxSettings returned error: %v", err)
	}
	if rules.VatInclusive {
		t.Error("VatInclusive = true after storing exclusive settings")
	}
	if rules.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", rules.Currency)
	}

	// A fresh read must come back from storage, not from defaults.
	rules, err = svc.GetPricingRules()
	if err != nil {
		t.Fatalf("GetPricingRules returned error: %v", err)
	}
	standard := rules.VatRates[models.VatRateClassStandard]
	if !standard.RatePercent.Equal(decimal.NewFromInt(19)) {
		t.Errorf("stored standard rate = %s, want 19", standard.RatePercent)
	}
	// Sections are independent: service charge keeps its defaults.
	if rules.ServiceCharge.Enabled {
		t.Error("ServiceCharge.Enabled changed by a tax update")
	}
}

func TestUpdateTaxSettingsValidation(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	tests := []struct {
		name     string
		settings TaxSettings
		wantErr  error
	}{
		{
			name: "negative rate",
			settings: TaxSettings{
				VatRates: map[models.VatRateClass]models.VatRate{
					models.VatRateClassStandard: {RatePercent: decimal.NewFromInt(-1)},
				},
				DefaultVatRateClass: models.VatRateClassStandard,
			},
			wantErr: ErrNegativeRate,
		},
		{
			name: "default class missing from rates",
			settings: TaxSettings{
				VatRates: map[models.VatRateClass]models.VatRate{
					models.VatRateClassZero: {RatePercent: decimal.Zero},
				},
				DefaultVatRateClass: models.VatRateClassStandard,
			},
			wantErr: ErrUnknownDefaultClass,
		},
		{
			name: "unknown rate class key",
			settings: TaxSettings{
				VatRates: map[models.VatRateClass]models.VatRate{
					models.VatRateClass("luxury"): {RatePercent: decimal.NewFromInt(30)},
				},
				DefaultVatRateClass: models.VatRateClass("luxury"),
			},
			wantErr: ErrInvalidRateClass,
		},
		{
			name:     "no rates at all",
			settings: TaxSettings{DefaultVatRateClass: models.VatRateClassStandard},
			wantErr:  ErrUnknownDefaultClass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpdateTaxSettings(tt.settings); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateTaxSettings error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateServiceChargeSettings(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	if _, err := svc.UpdateServiceChargeSettings(models.ServiceChargeRules{RatePercent: decimal.NewFromInt(-5)}); !errors.Is(err, ErrNegativeRate) {
		t.Errorf("negative rate error = %v, want ErrNegativeRate", err)
	}

	rules, err := svc.UpdateServiceChargeSettings(models.ServiceChargeRules{Enabled: true, RatePercent: decimal.RequireFromString("12.5")})
	if err != nil {
		t.Fatalf("UpdateServiceChargeSettings returned error: %v", err)
	}
	if !rules.ServiceCharge.Enabled {
		t.Error("ServiceCharge.Enabled = false after enabling")
	}
	if !rules.ServiceCharge.RatePercent.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("ServiceCharge.RatePercent = %s, want 12.5", rules.ServiceCharge.RatePercent)
	}
}

func TestUpdateDeliverySettings(t *testing.T) {
	svc := NewSettingsService(newStubSettingsRepo())

	if _, err := svc.UpdateDeliverySettings(models.DeliveryFeeRules{
		Amount:             decimal.NewFromInt(-1),
		FreeAboveThreshold: decimal.NewFromInt(25),
	}); !errors.Is(err, ErrNegativeRate) {
		t.Errorf("negative amount error = %v, want ErrNegativeRate", err)
	}

	rules, err := svc.UpdateDeliverySettings(models.DeliveryFeeRules{
		Amount:             decimal.RequireFromString("2.50"),
		FreeAboveThreshold: decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("UpdateDeliverySettings returned error: %v", err)
	}
	if !rules.DeliveryFee.Amount.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("DeliveryFee.Amount = %s, want 2.50", rules.DeliveryFee.Amount)
	}
	if !rules.DeliveryFee.FreeAboveThreshold.Equal(decimal.NewFromInt(40)) {
		t.Errorf("FreeAboveThreshold = %s, want 40", rules.DeliveryFee.FreeAboveThreshold)
	}
}
