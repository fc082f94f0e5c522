package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"jumboprint/internal/models"
	"jumboprint/internal/repositories"
	"jumboprint/internal/shiprocket"

	"github.com/google/uuid"
)

// ShippingClient is the slice of the Shiprocket client the order service needs.
type ShippingClient interface {
	CreateOrder(ctx context.Context, order *models.Order, user *models.User) (*shiprocket.Shipment, error)
	GenerateAWB(ctx context.Context, shipmentID string) (*shiprocket.AWB, error)
}

// EventPublisher publishes order lifecycle events to the message queue.
type EventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// CheckoutRequest is what the order form hands off after a successful upload.
type CheckoutRequest struct {
	ServiceType     string                 `json:"service_type" validate:"required"`
	Paper           string                 `json:"paper" validate:"required"`
	Lamination      string                 `json:"lamination" validate:"required"`
	Sides           string                 `json:"sides" validate:"required"`
	Quantity        int                    `json:"quantity" validate:"gt=0"`
	TotalPages      int                    `json:"total_pages" validate:"gte=0"`
	FileKeys        []string               `json:"file_keys" validate:"required,min=1,dive,required"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
}

// OrderService handles business logic related to print orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	pricing   *PricingService
	shipping  ShippingClient
	publisher EventPublisher // may be nil; events are then skipped
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	pricing *PricingService,
	shipping ShippingClient,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		pricing:   pricing,
		shipping:  shipping,
		publisher: publisher,
	}
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ListOrdersForUser retrieves the orders placed by one customer.
func (s *OrderService) ListOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(userID)
}

// Checkout creates a pending order from the form's handoff. The price is
// recomputed server-side from the rule tables; any total the client sent is
// ignored.
func (s *OrderService) Checkout(userID string, req CheckoutRequest) (*models.Order, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}

	price, err := s.pricing.Quote(req.ServiceType, PrintOptions{
		Paper:      req.Paper,
		Lamination: req.Lamination,
		Sides:      req.Sides,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("could not price order: %w", err)
	}

	newOrder := &models.Order{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		ServiceType:     req.ServiceType,
		Paper:           req.Paper,
		Lamination:      req.Lamination,
		Sides:           req.Sides,
		Quantity:        req.Quantity,
		TotalPages:      req.TotalPages,
		FileKeys:        strings.Join(req.FileKeys, ","),
		TotalAmount:     price,
		PaymentStatus:   models.PaymentPending,
		Status:          models.StatusPending,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"orderID": newOrder.ID,
		"userID":  newOrder.UserID,
		"status":  newOrder.Status,
		"total":   newOrder.TotalAmount,
	})

	return newOrder, nil
}

// UpdatePaymentStatus records a payment status change for an order.
func (s *OrderService) UpdatePaymentStatus(id string, paymentStatus string) error {
	if paymentStatus != models.PaymentPaid && paymentStatus != models.PaymentPending {
		return fmt.Errorf("invalid payment status: %s", paymentStatus)
	}
	if err := s.orderRepo.UpdatePaymentStatus(id, paymentStatus); err != nil {
		return fmt.Errorf("failed to update payment status for order %s: %w", id, err)
	}
	return nil
}

// UpdateOrderStatus updates the lifecycle status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	validStatuses := map[string]bool{
		models.StatusPending:    true,
		models.StatusProcessing: true,
		models.StatusShipped:    true,
		models.StatusDelivered:  true,
		models.StatusCancelled:  true,
	}
	if _, ok := validStatuses[status]; !ok {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// Ship finalizes an order with the shipping provider: it creates the
// shipment, requests an airway bill, records both on the order, and announces
// the shipment. A failed AWB assignment leaves the shipment recorded so the
// operation can be retried.
func (s *OrderService) Ship(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusShipped {
		return nil, fmt.Errorf("order %s is already shipped", orderID)
	}

	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}

	if order.ShipmentID == "" {
		shipment, err := s.shipping.CreateOrder(ctx, order, user)
		if err != nil {
			return nil, err
		}
		order.ShipmentID = shipment.ShipmentID
		order.ShiprocketOrderID = shipment.OrderID
		order.Status = models.StatusProcessing
		if err := s.orderRepo.Update(order); err != nil {
			return nil, fmt.Errorf("failed to record shipment for order %s: %w", orderID, err)
		}
	}

	awb, err := s.shipping.GenerateAWB(ctx, order.ShipmentID)
	if err != nil {
		return nil, err
	}

	order.AWBCode = awb.Code
	order.CourierName = awb.CourierName
	order.Status = models.StatusShipped
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to record AWB for order %s: %w", orderID, err)
	}

	s.publishEvent("order.shipped", map[string]interface{}{
		"orderID":    order.ID,
		"shipmentID": order.ShipmentID,
		"awbCode":    order.AWBCode,
		"courier":    order.CourierName,
	})

	return order, nil
}

func (s *OrderService) publishEvent(event string, payload map[string]interface{}) {
	if s.publisher == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	if err := s.publisher.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
