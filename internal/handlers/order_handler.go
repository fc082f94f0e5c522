package handlers

import (
	"fmt"
	"log"
	"strings"

	"jumboprint/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Patch("/:id/payment", h.HandleUpdatePaymentStatus)
	orderRoutes.Post("/:id/ship", h.HandleShipOrder)
}

// userID pulls the authenticated customer's ID from the JWT middleware locals.
func userID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// HandleListOrders retrieves the authenticated customer's orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrdersForUser(userID(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID. Customers can only
// see their own orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	if order.UserID != userID(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}
	return c.JSON(order)
}

// HandleCheckout creates a new order from the form's checkout handoff.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	createdOrder, err := h.service.Checkout(userID(c), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		if strings.Contains(err.Error(), "could not price order") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order creation failed due to invalid print options.",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleUpdatePaymentStatus records a payment status change for an order.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		PaymentStatus string `json:"payment_status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for payment update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for payment update",
			"error":   err.Error(),
		})
	}

	if updateData.PaymentStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "payment_status is required.",
		})
	}

	if err := h.service.UpdatePaymentStatus(orderID, updateData.PaymentStatus); err != nil {
		log.Printf("Error updating payment status for order %s: %v", orderID, err)
		if strings.Contains(err.Error(), "invalid payment status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Payment update failed: %v", err.Error()),
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update payment status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s payment status updated to %s", orderID, updateData.PaymentStatus),
	})
}

// HandleShipOrder finalizes an order with the shipping provider and returns
// the order with its shipment and AWB details filled in.
func (h *OrderHandler) HandleShipOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	order, err := h.service.Ship(c.UserContext(), orderID)
	if err != nil {
		log.Printf("Error shipping order %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		if strings.Contains(err.Error(), "already shipped") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Order %s is already shipped", orderID),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not ship order",
			"error":   err.Error(),
		})
	}

	return c.JSON(order)
}
