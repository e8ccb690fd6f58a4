package services

import (
	"errors"
	"testing"

	"restaurant_ops_backend/internal/models"

	"github.com/shopspring/decimal"
)

func testPricingRules() models.PricingRules {
	return models.PricingRules{
		VatRates: map[models.VatRateClass]models.VatRate{
			models.VatRateClassStandard: {RatePercent: decimal.NewFromInt(20)},
			models.VatRateClassReduced:  {RatePercent: decimal.NewFromInt(5)},
			models.VatRateClassZero:     {RatePercent: decimal.Zero},
		},
		DefaultVatRateClass: models.VatRateClassStandard,
		VatInclusive:        true,
		ServiceCharge:       models.ServiceChargeRules{Enabled: false, RatePercent: decimal.NewFromInt(10)},
		DeliveryFee: models.DeliveryFeeRules{
			Amount:             decimal.RequireFromString("3.99"),
			FreeAboveThreshold: decimal.NewFromInt(25),
		},
		Currency: "GBP",
	}
}

func assertMoney(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Round(2).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", field, got.Round(2), want)
	}
}

func TestCalculatePricingVatInclusive(t *testing.T) {
	rules := testPricingRules()

	breakdown, err := CalculatePricing(decimal.NewFromInt(20), rules, PricingOptions{OrderType: models.OrderTypePickup})
	if err != nil {
		t.Fatalf("CalculatePricing returned error: %v", err)
	}

	// 20% VAT extracted from a VAT-inclusive £20.00.
	assertMoney(t, "VatAmount", breakdown.VatAmount, "3.33")
	assertMoney(t, "NetAmount", breakdown.NetAmount, "16.67")
	assertMoney(t, "TotalAmount", breakdown.TotalAmount, "20.00")
	if breakdown.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP", breakdown.Currency)
	}
}

func TestCalculatePricingVatExclusiveWithDeliveryFee(t *testing.T) {
	rules := testPricingRules()
	rules.VatInclusive = false

	breakdown, err := CalculatePricing(decimal.NewFromInt(10), rules, PricingOptions{OrderType: models.OrderTypeDelivery})
	if err != nil {
		t.Fatalf("CalculatePricing returned error: %v", err)
	}

	assertMoney(t, "NetAmount", breakdown.NetAmount, "10.00")
	assertMoney(t, "VatAmount", breakdown.VatAmount, "2.00")
	assertMoney(t, "DeliveryFee", breakdown.DeliveryFee, "3.99")
	assertMoney(t, "TotalAmount", breakdown.TotalAmount, "15.99")
}

func TestCalculatePricingServiceChargeOnNet(t *testing.T) {
	rules := testPricingRules()
	rules.ServiceCharge.Enabled = true

	// VAT-inclusive £120 at 20%: net is £100, so a 10% service charge must be
	// exactly £10, not 10% of the gross.
	breakdown, err := CalculatePricing(decimal.NewFromInt(120), rules, PricingOptions{OrderType: models.OrderTypeDineIn})
	if err != nil {
		t.Fatalf("CalculatePricing returned error: %v", err)
	}

	assertMoney(t, "NetAmount", breakdown.NetAmount, "100.00")
	assertMoney(t, "ServiceCharge", breakdown.ServiceCharge, "10.00")
	assertMoney(t, "TotalAmount", breakdown.TotalAmount, "130.00")
}

func TestCalculatePricingDeliveryFeeThreshold(t *testing.T) {
	rules := testPricingRules()

	tests := []struct {
		name      string
		subtotal  string
		orderType models.OrderType
		wantFee   string
	}{
		{"delivery below threshold", "24.99", models.OrderTypeDelivery, "3.99"},
		{"delivery at threshold", "25.00", models.OrderTypeDelivery, "0.00"},
		{"delivery above threshold", "30.00", models.OrderTypeDelivery, "0.00"},
		{"pickup never charged", "5.00", models.OrderTypePickup, "0.00"},
		{"dine-in never charged", "5.00", models.OrderTypeDineIn, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown, err := CalculatePricing(decimal.RequireFromString(tt.subtotal), rules, PricingOptions{OrderType: tt.orderType})
			if err != nil {
				t.Fatalf("CalculatePricing returned error: %v", err)
			}
			assertMoney(t, "DeliveryFee", breakdown.DeliveryFee, tt.wantFee)
		})
	}
}

func TestCalculatePricingRateClassOverride(t *testing.T) {
	rules := testPricingRules()
	zero := models.VatRateClassZero

	breakdown, err := CalculatePricing(decimal.NewFromInt(15), rules, PricingOptions{
		OrderType:            models.OrderTypePickup,
		VatRateClassOverride: &zero,
	})
	if err != nil {
		t.Fatalf("CalculatePricing returned error: %v", err)
	}

	assertMoney(t, "VatAmount", breakdown.VatAmount, "0.00")
	assertMoney(t, "NetAmount", breakdown.NetAmount, "15.00")
	assertMoney(t, "TotalAmount", breakdown.TotalAmount, "15.00")
}

func TestCalculatePricingInvalidInputs(t *testing.T) {
	rules := testPricingRules()

	if _, err := CalculatePricing(decimal.Zero, rules, PricingOptions{OrderType: models.OrderTypePickup}); !errors.Is(err, ErrInvalidSubtotal) {
		t.Errorf("zero subtotal: got %v, want ErrInvalidSubtotal", err)
	}
	if _, err := CalculatePricing(decimal.NewFromInt(-5), rules, PricingOptions{OrderType: models.OrderTypePickup}); !errors.Is(err, ErrInvalidSubtotal) {
		t.Errorf("negative subtotal: got %v, want ErrInvalidSubtotal", err)
	}

	bogus := models.VatRateClass("luxury")
	if _, err := CalculatePricing(decimal.NewFromInt(10), rules, PricingOptions{
		OrderType:            models.OrderTypePickup,
		VatRateClassOverride: &bogus,
	}); !errors.Is(err, ErrInvalidRateClass) {
		t.Errorf("unknown rate class: got %v, want ErrInvalidRateClass", err)
	}
}

func TestCalculatePricingDoesNotMutateInputs(t *testing.T) {
	rules := testPricingRules()
	subtotal := decimal.RequireFromString("42.50")

	if _, err := CalculatePricing(subtotal, rules, PricingOptions{OrderType: models.OrderTypeDelivery}); err != nil {
		t.Fatalf("CalculatePricing returned error: %v", err)
	}
	if !subtotal.Equal(decimal.RequireFromString("42.50")) {
		t.Errorf("subtotal mutated: %s", subtotal)
	}
	if !rules.DeliveryFee.Amount.Equal(decimal.RequireFromString("3.99")) {
		t.Errorf("rules mutated: %s", rules.DeliveryFee.Amount)
	}
}
