package repositories

import (
	"jumboprint/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetAllByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	UpdateStatus(id string, status string) error
	UpdatePaymentStatus(id string, paymentStatus string) error
}
