package services

import (
	"errors"
	"fmt"

	"restaurant_ops_backend/internal/models"

	"github.com/shopspring/decimal"
)

// Calculator errors.
var (
	ErrInvalidSubtotal  = errors.New("subtotal must be greater than zero")
	ErrInvalidRateClass = errors.New("unknown VAT rate class")
)

// PricingOptions carries the order context the calculation depends on.
type PricingOptions struct {
	OrderType models.OrderType
	// VatRateClassOverride selects a VAT band other than the configured
	// default. Nil means the default class applies.
	VatRateClassOverride *models.VatRateClass
}

var oneHundred = decimal.NewFromInt(100)

// CalculatePricing turns a subtotal and a pricing-rules snapshot into a full
// charge breakdown. Pure and deterministic: no I/O, no mutation of the inputs.
//
// Service charge is computed on the net (pre-VAT) amount, not gross. That
// ordering is a contractual business rule and must not change.
func CalculatePricing(subtotal decimal.Decimal, rules models.PricingRules, opts PricingOptions) (*models.PricingBreakdown, error) {
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidSubtotal, subtotal)
	}

	rateClass := rules.DefaultVatRateClass
	if opts.VatRateClassOverride != nil {
		rateClass = *opts.VatRateClassOverride
	}
	vatRate, ok := rules.VatRates[rateClass]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRateClass, rateClass)
	}
	rate := vatRate.RatePercent

	var netAmount, vatAmount, grossAmount decimal.Decimal
	if rules.VatInclusive {
		// Listed prices already contain VAT: extract it from the subtotal.
		vatAmount = subtotal.Mul(rate).Div(oneHundred.Add(rate))
		netAmount = subtotal.Sub(vatAmount)
		grossAmount = subtotal
	} else {
		vatAmount = subtotal.Mul(rate).Div(oneHundred)
		netAmount = subtotal
		grossAmount = subtotal.Add(vatAmount)
	}

	serviceCharge := decimal.Zero
	if rules.ServiceCharge.Enabled {
		serviceCharge = netAmount.Mul(rules.ServiceCharge.RatePercent).Div(oneHundred)
	}

	deliveryFee := decimal.Zero
	if opts.OrderType == models.OrderTypeDelivery && subtotal.LessThan(rules.DeliveryFee.FreeAboveThreshold) {
		deliveryFee = rules.DeliveryFee.Amount
	}

	totalAmount := grossAmount.Add(serviceCharge).Add(deliveryFee)

	return &models.PricingBreakdown{
		Subtotal:       subtotal,
		NetAmount:      netAmount,
		VatAmount:      vatAmount,
		VatRatePercent: rate,
		ServiceCharge:  serviceCharge,
		DeliveryFee:    deliveryFee,
		TotalAmount:    totalAmount,
		Currency:       rules.Currency,
	}, nil
}
