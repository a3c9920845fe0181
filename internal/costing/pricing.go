package costing

import (
	"fmt"
	"math"
)

// MarginWarningThreshold is the margin percentage above which a warning is raised.
const MarginWarningThreshold = 100.0

// PricingBreakdown applies margin and then GST to a base price.
type PricingBreakdown struct {
	ExecutionBasePrice float64  `json:"executionBasePrice"`
	BasePrice          float64  `json:"basePrice"`
	MarginPercentage   float64  `json:"marginPercentage"`
	MarginAmount       float64  `json:"marginAmount"`
	PriceWithMargin    float64  `json:"priceWithMargin"`
	GSTPercentage      float64  `json:"gstPercentage"`
	GSTAmount          float64  `json:"gstAmount"`
	TotalPrice         float64  `json:"totalPrice"`
	Warnings           []string `json:"warnings,omitempty"`
}

// ValidateMargin rejects negative margins and returns a warning for margins
// above MarginWarningThreshold.
func ValidateMargin(marginPercentage float64) (warning string, err error) {
	if math.IsNaN(marginPercentage) || marginPercentage < 0 {
		return "", fmt.Errorf("%w: margin percentage %v must not be negative", ErrInvalidMarginValue, marginPercentage)
	}
	if marginPercentage > MarginWarningThreshold {
		return fmt.Sprintf("margin percentage %.2f exceeds %.0f%%", marginPercentage, MarginWarningThreshold), nil
	}
	return "", nil
}

// ValidateTax rejects negative GST percentages.
func ValidateTax(gstPercentage float64) error {
	if math.IsNaN(gstPercentage) || gstPercentage < 0 {
		return fmt.Errorf("%w: gst percentage %v must not be negative", ErrInvalidTaxValue, gstPercentage)
	}
	return nil
}

// ApplyMarginAndTax computes margin on basePrice, then GST on the
// margin-adjusted price. Invalid percentages produce no breakdown.
func ApplyMarginAndTax(basePrice, marginPercentage, gstPercentage float64) (PricingBreakdown, error) {
	warning, err := ValidateMargin(marginPercentage)
	if err != nil {
		return PricingBreakdown{}, err
	}
	if err := ValidateTax(gstPercentage); err != nil {
		return PricingBreakdown{}, err
	}

	base := nonNegative(basePrice)
	marginAmount := base * marginPercentage / 100
	withMargin := base + marginAmount
	gstAmount := withMargin * gstPercentage / 100

	b := PricingBreakdown{
		ExecutionBasePrice: base,
		BasePrice:          base,
		MarginPercentage:   marginPercentage,
		MarginAmount:       marginAmount,
		PriceWithMargin:    withMargin,
		GSTPercentage:      gstPercentage,
		GSTAmount:          gstAmount,
		TotalPrice:         withMargin + gstAmount,
	}
	if warning != "" {
		b.Warnings = append(b.Warnings, warning)
	}
	return b, nil
}

// PricingSummary is the project-level margin view. Execution services carry
// margin and GST; products and fixtures pass through at cost.
type PricingSummary struct {
	ExecutionServicesBasePrice  float64          `json:"executionServicesBasePrice"`
	ProductAndFixturesBasePrice float64          `json:"productAndFixturesBasePrice"`
	TotalBasePrice              float64          `json:"totalBasePrice"`
	Pricing                     PricingBreakdown `json:"pricing"`
	GrandTotal                  float64          `json:"grandTotal"`
}

// SummarizePricing applies margin and GST to the execution portion only and
// adds the product portion unchanged.
func SummarizePricing(executionBase, productBase, marginPercentage, gstPercentage float64) (PricingSummary, error) {
	pricing, err := ApplyMarginAndTax(executionBase, marginPercentage, gstPercentage)
	if err != nil {
		return PricingSummary{}, err
	}
	products := nonNegative(productBase)
	return PricingSummary{
		ExecutionServicesBasePrice:  pricing.BasePrice,
		ProductAndFixturesBasePrice: products,
		TotalBasePrice:              pricing.BasePrice + products,
		Pricing:                     pricing,
		GrandTotal:                  pricing.TotalPrice + products,
	}, nil
}
