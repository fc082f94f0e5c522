package models

import "time"

// Payment statuses recognized by the storefront. Anything other than Paid
// ships as cash-on-delivery.
const (
	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
)

// Order lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ShippingAddress is the destination embedded in every order.
type ShippingAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}

// Order represents a configured print job placed by a customer.
type Order struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID string `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`

	// Print configuration captured from the order form.
	ServiceType string `json:"service_type" validate:"required"`
	Paper       string `json:"paper"`
	Lamination  string `json:"lamination"`
	Sides       string `json:"sides"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	TotalPages  int    `json:"total_pages"`
	FileKeys    string `json:"file_keys"` // comma-separated upload keys

	TotalAmount   float64 `json:"total_amount" validate:"gte=0"`
	PaymentStatus string  `json:"payment_status"`
	Status        string  `json:"status"`

	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`

	// Populated once the shipping provider accepts the order.
	ShipmentID        string `json:"shipment_id,omitempty"`
	ShiprocketOrderID string `json:"shiprocket_order_id,omitempty"`
	AWBCode           string `json:"awb_code,omitempty"`
	CourierName       string `json:"courier_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
