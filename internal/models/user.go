package models

import "gorm.io/gorm"

// User represents a customer of the print store.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Phone      string `json:"phone" gorm:"type:varchar(20)" validate:"required,min=10"` // shipping requires a reachable phone
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"`              // No json tag for security
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
