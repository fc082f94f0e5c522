package services_test

import (
	"testing"

	"jumboprint/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestPricingService_Quote(t *testing.T) {
	pricing := services.NewPricingService()

	tests := []struct {
		name        string
		serviceType string
		opts        services.PrintOptions
		expected    float64
	}{
		{
			name:        "base art paper single sided",
			serviceType: "business_card",
			opts:        services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "single", Quantity: 100},
			expected:    250,
		},
		{
			name:        "metallic with gloss lamination",
			serviceType: "business_card",
			opts:        services.PrintOptions{Paper: "metallic", Lamination: "gloss", Sides: "single", Quantity: 100},
			expected:    570,
		},
		{
			name:        "double sided multiplies subtotal",
			serviceType: "business_card",
			opts:        services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "double", Quantity: 100},
			expected:    375,
		},
		{
			name:        "quantity scales in hundreds",
			serviceType: "business_card",
			opts:        services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "single", Quantity: 300},
			expected:    750,
		},
		{
			name:        "partial hundred charged as full",
			serviceType: "business_card",
			opts:        services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "single", Quantity: 150},
			expected:    500,
		},
		{
			name:        "form label accepted",
			serviceType: "Business Card",
			opts:        services.PrintOptions{Paper: "matte", Lamination: "matte", Sides: "single", Quantity: 100},
			expected:    400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := pricing.Quote(tt.serviceType, tt.opts)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, price)
		})
	}
}

func TestPricingService_QuoteErrors(t *testing.T) {
	pricing := services.NewPricingService()

	_, err := pricing.Quote("poster", services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "single", Quantity: 100})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service type")

	_, err = pricing.Quote("business_card", services.PrintOptions{Paper: "papyrus", Lamination: "none", Sides: "single", Quantity: 100})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown paper stock")

	_, err = pricing.Quote("business_card", services.PrintOptions{Paper: "art_paper", Lamination: "velvet", Sides: "single", Quantity: 100})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lamination")

	_, err = pricing.Quote("business_card", services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "triple", Quantity: 100})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sides option")

	_, err = pricing.Quote("business_card", services.PrintOptions{Paper: "art_paper", Lamination: "none", Sides: "single", Quantity: 0})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be positive")
}
