package handlers

import (
	"jumboprint/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PricingHandler serves live price quotes to the order form.
type PricingHandler struct {
	service *services.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(service *services.PricingService) *PricingHandler {
	return &PricingHandler{
		service: service,
	}
}

// RegisterRoutes registers the pricing routes with the Fiber app.
func (h *PricingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/pricing/quote", h.HandleQuote)
}

// HandleQuote computes a price from query parameters, e.g.
// /pricing/quote?service_type=business_card&paper=art_paper&lamination=none&sides=single&quantity=100
func (h *PricingHandler) HandleQuote(c *fiber.Ctx) error {
	opts := services.PrintOptions{
		Paper:      c.Query("paper"),
		Lamination: c.Query("lamination"),
		Sides:      c.Query("sides"),
		Quantity:   c.QueryInt("quantity"),
	}

	price, err := h.service.Quote(c.Query("service_type"), opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not compute quote",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"service_type": c.Query("service_type"),
		"price":        price,
	})
}
