package models

import "github.com/shopspring/decimal"

// VatRateClass identifies which VAT band applies to an item or order.
type VatRateClass string

const (
	VatRateClassStandard VatRateClass = "standard"
	VatRateClassReduced  VatRateClass = "reduced"
	VatRateClassZero     VatRateClass = "zero"
)

// IsValidVatRateClass checks if the provided string is one of the known VAT bands.
func IsValidVatRateClass(class string) bool {
	switch VatRateClass(class) {
	case VatRateClassStandard, VatRateClassReduced, VatRateClassZero:
		return true
	default:
		return false
	}
}

// VatRate is a single VAT band: a percentage and a human-readable description.
type VatRate struct {
	RatePercent decimal.Decimal `json:"rate_percent"`
	Description string          `json:"description,omitempty"`
}

// ServiceChargeRules configures the optional service charge.
// The charge is computed on the net (pre-VAT) amount.
type ServiceChargeRules struct {
	Enabled     bool            `json:"enabled"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

// DeliveryFeeRules configures the flat delivery fee and the subtotal
// threshold above which delivery is free.
type DeliveryFeeRules struct {
	Amount             decimal.Decimal `json:"amount"`
	FreeAboveThreshold decimal.Decimal `json:"free_above_threshold"`
}

// PricingRules is a read-only snapshot of the pricing configuration,
// fetched once per request and passed into the calculator by value.
type PricingRules struct {
	VatRates            map[VatRateClass]VatRate `json:"vat_rates"`
	DefaultVatRateClass VatRateClass             `json:"default_vat_rate_class"`
	VatInclusive        bool                     `json:"vat_inclusive"`
	ServiceCharge       ServiceChargeRules       `json:"service_charge"`
	DeliveryFee         DeliveryFeeRules         `json:"delivery_fee"`
	Currency            string                   `json:"currency"`
}

// PricingBreakdown is the computed charge breakdown for an order.
// Immutable once computed for a given item set; recomputed in full
// whenever the item set changes.
type PricingBreakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	VatAmount      decimal.Decimal `json:"vat_amount"`
	VatRatePercent decimal.Decimal `json:"vat_rate_percent"`
	ServiceCharge  decimal.Decimal `json:"service_charge"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`
}

// Rounded returns a copy of the breakdown with every monetary field rounded
// to 2 decimal places. Used only at the persistence/presentation boundary;
// intermediate calculation always runs at full precision.
func (b PricingBreakdown) Rounded() PricingBreakdown {
	return PricingBreakdown{
		Subtotal:       b.Subtotal.Round(2),
		NetAmount:      b.NetAmount.Round(2),
		VatAmount:      b.VatAmount.Round(2),
		VatRatePercent: b.VatRatePercent,
		ServiceCharge:  b.ServiceCharge.Round(2),
		DeliveryFee:    b.DeliveryFee.Round(2),
		TotalAmount:    b.TotalAmount.Round(2),
		Currency:       b.Currency,
	}
}
