package services_test

import (
	"context"
	"fmt"
	"testing"

	"jumboprint/internal/models"
	"jumboprint/internal/services"
	"jumboprint/internal/shiprocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePaymentStatus(id string, paymentStatus string) error {
	args := m.Called(id, paymentStatus)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockShippingClient is a mock implementation of services.ShippingClient
type MockShippingClient struct {
	mock.Mock
}

func (m *MockShippingClient) CreateOrder(ctx context.Context, order *models.Order, user *models.User) (*shiprocket.Shipment, error) {
	args := m.Called(ctx, order, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shiprocket.Shipment), args.Error(1)
}

func (m *MockShippingClient) GenerateAWB(ctx context.Context, shipmentID string) (*shiprocket.AWB, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shiprocket.AWB), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func testCustomer() *models.User {
	return &models.User{
		ID:    "usr-1",
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "9876543210",
	}
}

func testCheckoutRequest() services.CheckoutRequest {
	return services.CheckoutRequest{
		ServiceType: "business_card",
		Paper:       "art_paper",
		Lamination:  "none",
		Sides:       "single",
		Quantity:    100,
		TotalPages:  1,
		FileKeys:    []string{"abc_design.pdf"},
		ShippingAddress: models.ShippingAddress{
			Street:  "12-3 Main Road",
			City:    "Hyderabad",
			State:   "Telangana",
			Pincode: "500001",
		},
	}
}

func newOrderService(orderRepo *MockOrderRepository, userRepo *MockUserRepository, shipping *MockShippingClient, publisher services.EventPublisher) *services.OrderService {
	return services.NewOrderService(orderRepo, userRepo, services.NewPricingService(), shipping, publisher)
}

func TestOrderService_Checkout(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	service := newOrderService(orderRepo, userRepo, nil, publisher)

	userRepo.On("GetByID", "usr-1").Return(testCustomer(), nil).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("PublishOrderEvent", "order.created", mock.Anything).Return(nil).Once()

	order, err := service.Checkout("usr-1", testCheckoutRequest())
	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "usr-1", order.UserID)
	// Price is recomputed server-side from the rule table.
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "abc_design.pdf", order.FileKeys)

	orderRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CheckoutRejectsUnpriceableOptions(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	service := newOrderService(orderRepo, userRepo, nil, nil)

	userRepo.On("GetByID", "usr-1").Return(testCustomer(), nil).Once()

	req := testCheckoutRequest()
	req.Paper = "papyrus"
	_, err := service.Checkout("usr-1", req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not price order")
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CheckoutUnknownCustomer(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	service := newOrderService(orderRepo, userRepo, nil, nil)

	userRepo.On("GetByID", "ghost").Return(nil, fmt.Errorf("user with ID ghost not found")).Once()

	_, err := service.Checkout("ghost", testCheckoutRequest())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "customer lookup failed")
}

func TestOrderService_Ship(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	shipping := new(MockShippingClient)
	publisher := new(MockEventPublisher)
	service := newOrderService(orderRepo, userRepo, shipping, publisher)

	order := &models.Order{
		ID:            "ord-1",
		UserID:        "usr-1",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPaid,
	}

	orderRepo.On("GetByID", "ord-1").Return(order, nil).Once()
	userRepo.On("GetByID", "usr-1").Return(testCustomer(), nil).Once()
	shipping.On("CreateOrder", mock.Anything, order, mock.AnythingOfType("*models.User")).
		Return(&shiprocket.Shipment{ShipmentID: "424242", OrderID: "515151"}, nil).Once()
	shipping.On("GenerateAWB", mock.Anything, "424242").
		Return(&shiprocket.AWB{Code: "AWB123", CourierName: "Blue Dart"}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Twice()
	publisher.On("PublishOrderEvent", "order.shipped", mock.Anything).Return(nil).Once()

	shipped, err := service.Ship(context.Background(), "ord-1")
	assert.NoError(t, err)
	assert.Equal(t, "424242", shipped.ShipmentID)
	assert.Equal(t, "515151", shipped.ShiprocketOrderID)
	assert.Equal(t, "AWB123", shipped.AWBCode)
	assert.Equal(t, "Blue Dart", shipped.CourierName)
	assert.Equal(t, models.StatusShipped, shipped.Status)

	orderRepo.AssertExpectations(t)
	shipping.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_ShipAWBFailureKeepsShipment(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	shipping := new(MockShippingClient)
	service := newOrderService(orderRepo, userRepo, shipping, nil)

	order := &models.Order{
		ID:     "ord-1",
		UserID: "usr-1",
		Status: models.StatusPending,
	}

	orderRepo.On("GetByID", "ord-1").Return(order, nil).Once()
	userRepo.On("GetByID", "usr-1").Return(testCustomer(), nil).Once()
	shipping.On("CreateOrder", mock.Anything, order, mock.AnythingOfType("*models.User")).
		Return(&shiprocket.Shipment{ShipmentID: "424242", OrderID: "515151"}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	shipping.On("GenerateAWB", mock.Anything, "424242").
		Return(nil, &shiprocket.AWBGenerationError{}).Once()

	_, err := service.Ship(context.Background(), "ord-1")
	assert.Error(t, err)

	var awbErr *shiprocket.AWBGenerationError
	assert.ErrorAs(t, err, &awbErr)
	// The shipment was recorded before the AWB attempt, so a retry skips
	// straight to courier assignment.
	assert.Equal(t, "424242", order.ShipmentID)
	assert.Equal(t, models.StatusProcessing, order.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_ShipAlreadyShipped(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderService(orderRepo, new(MockUserRepository), new(MockShippingClient), nil)

	orderRepo.On("GetByID", "ord-1").
		Return(&models.Order{ID: "ord-1", Status: models.StatusShipped}, nil).Once()

	_, err := service.Ship(context.Background(), "ord-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already shipped")
}

func TestOrderService_ShipRetryAfterAWBFailure(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	shipping := new(MockShippingClient)
	service := newOrderService(orderRepo, userRepo, shipping, nil)

	// Shipment already recorded from a previous attempt; only the AWB is missing.
	order := &models.Order{
		ID:         "ord-1",
		UserID:     "usr-1",
		Status:     models.StatusProcessing,
		ShipmentID: "424242",
	}

	orderRepo.On("GetByID", "ord-1").Return(order, nil).Once()
	userRepo.On("GetByID", "usr-1").Return(testCustomer(), nil).Once()
	shipping.On("GenerateAWB", mock.Anything, "424242").
		Return(&shiprocket.AWB{Code: "AWB123", CourierName: "Blue Dart"}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	shipped, err := service.Ship(context.Background(), "ord-1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)
	shipping.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderService(orderRepo, new(MockUserRepository), nil, nil)

	orderRepo.On("UpdatePaymentStatus", "ord-1", models.PaymentPaid).Return(nil).Once()
	assert.NoError(t, service.UpdatePaymentStatus("ord-1", models.PaymentPaid))
	orderRepo.AssertExpectations(t)

	err := service.UpdatePaymentStatus("ord-1", "Refunded")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid payment status")
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := newOrderService(orderRepo, new(MockUserRepository), nil, nil)

	orderRepo.On("UpdateStatus", "ord-1", models.StatusCancelled).Return(nil).Once()
	assert.NoError(t, service.UpdateOrderStatus("ord-1", models.StatusCancelled))
	orderRepo.AssertExpectations(t)

	err := service.UpdateOrderStatus("ord-1", "lost")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}
