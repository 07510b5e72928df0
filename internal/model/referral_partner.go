package model

const (
	CommissionPercent = "percent"
	CommissionFixed   = "fixed"
)

// ReferralPartner is attributed on an order at creation time. Commission is
// derived on demand from the order's frozen total, never stored per order.
type ReferralPartner struct {
	BaseModel
	Name            string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone           string  `gorm:"type:varchar(20)" json:"phone,omitempty"`
	CommissionType  string  `gorm:"type:varchar(10);not null" json:"commission_type" validate:"required,oneof=percent fixed"`
	CommissionValue float64 `gorm:"not null" json:"commission_value" validate:"gte=0"`
	Notes           string  `json:"notes,omitempty"`
	IsActive        bool    `gorm:"not null;default:true" json:"is_active"`
}
