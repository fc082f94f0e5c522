package services

import (
	"fmt"
	"strings"
)

// PrintOptions are the selections the order form exposes for a print service.
type PrintOptions struct {
	Paper      string `json:"paper"`
	Lamination string `json:"lamination"`
	Sides      string `json:"sides"`
	Quantity   int    `json:"quantity"`
}

// Business card rates are per 100 cards by paper stock. Lamination adds a
// flat surcharge per 100; double-sided printing multiplies the subtotal.
var (
	businessCardPaperRates = map[string]float64{
		"art_paper": 250,
		"matte":     300,
		"metallic":  450,
	}
	businessCardLaminationRates = map[string]float64{
		"none":  0,
		"matte": 100,
		"gloss": 120,
	}
	businessCardSideFactors = map[string]float64{
		"single": 1.0,
		"double": 1.5,
	}
)

// PricingService computes quotes for print services from the rule tables.
type PricingService struct{}

// NewPricingService creates a new PricingService.
func NewPricingService() *PricingService {
	return &PricingService{}
}

// Quote returns the price for the given service type and option set.
// Unknown services or options are an error, not a zero price.
func (s *PricingService) Quote(serviceType string, opts PrintOptions) (float64, error) {
	switch normalizeServiceType(serviceType) {
	case "business_card":
		return s.quoteBusinessCard(opts)
	default:
		return 0, fmt.Errorf("unknown service type: %s", serviceType)
	}
}

func (s *PricingService) quoteBusinessCard(opts PrintOptions) (float64, error) {
	if opts.Quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", opts.Quantity)
	}

	paperRate, ok := businessCardPaperRates[opts.Paper]
	if !ok {
		return 0, fmt.Errorf("unknown paper stock: %s", opts.Paper)
	}
	laminationRate, ok := businessCardLaminationRates[opts.Lamination]
	if !ok {
		return 0, fmt.Errorf("unknown lamination: %s", opts.Lamination)
	}
	sideFactor, ok := businessCardSideFactors[opts.Sides]
	if !ok {
		return 0, fmt.Errorf("unknown sides option: %s", opts.Sides)
	}

	// Cards are produced in sheets of 100; partial hundreds are charged as full.
	hundreds := (opts.Quantity + 99) / 100
	return (paperRate + laminationRate) * sideFactor * float64(hundreds), nil
}

// normalizeServiceType accepts the labels the order form sends ("Business
// Card", "businessCard") as well as the internal snake_case form.
func normalizeServiceType(serviceType string) string {
	s := strings.ToLower(strings.TrimSpace(serviceType))
	s = strings.ReplaceAll(s, " ", "_")
	if s == "businesscard" {
		return "business_card"
	}
	return s
}
