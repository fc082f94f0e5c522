package repositories

import (
	"fmt"

	"jumboprint/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders from the database.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetAllByUser retrieves all orders placed by the given user.
func (r *GORMOrderRepository) GetAllByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Find(&orders, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID from the database.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update saves every field of an existing order.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	return nil
}

// UpdateStatus updates the lifecycle status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	return r.updateColumn(id, "status", status)
}

// UpdatePaymentStatus updates the payment status of an order.
func (r *GORMOrderRepository) UpdatePaymentStatus(id string, paymentStatus string) error {
	return r.updateColumn(id, "payment_status", paymentStatus)
}

func (r *GORMOrderRepository) updateColumn(id, column, value string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}
