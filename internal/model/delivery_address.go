package model

import "github.com/google/uuid"

// DeliveryAddress is a per-customer address book entry.
type DeliveryAddress struct {
	BaseModel
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	AddressLine1  string    `gorm:"type:varchar(255);not null" json:"address_line1" validate:"required"`
	AddressLine2  string    `gorm:"type:varchar(255)" json:"address_line2,omitempty"`
	City          string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	State         string    `gorm:"type:varchar(100)" json:"state,omitempty"`
	Pincode       string    `gorm:"type:varchar(10)" json:"pincode,omitempty"`
	RecipientName string    `gorm:"type:varchar(255);not null" json:"recipient_name" validate:"required"`
	Phone         string    `gorm:"type:varchar(20);not null" json:"phone" validate:"required,indian_phone"`
}
