package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Order struct {
	BaseModel
	DisplayID         string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"display_id"`
	CustomerID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id" validate:"uuid_required"`
	ReferralPartnerID *uuid.UUID  `gorm:"type:uuid;index" json:"referral_partner_id,omitempty"`
	DeliveryAddressID *uuid.UUID  `gorm:"type:uuid" json:"delivery_address_id,omitempty"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount       float64     `gorm:"not null" json:"total_amount"`
	DiscountAmount    float64     `gorm:"not null;default:0" json:"discount_amount" validate:"gte=0"`
	DeliveryFee       float64     `gorm:"not null;default:0" json:"delivery_fee" validate:"gte=0"`
	DueDate           time.Time   `gorm:"type:date;not null" json:"due_date"`
	Notes             string      `gorm:"type:varchar(1000)" json:"notes"`

	// Relations
	Customer        *Customer           `json:"customer,omitempty"`
	ReferralPartner *ReferralPartner    `json:"referral_partner,omitempty"`
	DeliveryAddress *DeliveryAddress    `json:"delivery_address,omitempty"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
	Payments        []OrderPayment      `gorm:"foreignKey:OrderID" json:"order_payments,omitempty"`
	Cancellations   []OrderCancellation `gorm:"foreignKey:OrderID" json:"order_cancellations,omitempty"`
}

// OrderItem freezes the sell and cost price at order creation/edit time.
// The snapshots are the basis for all later financial reconciliation and are
// never recomputed from the live catalog.
type OrderItem struct {
	BaseModel
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	SupplierID      *uuid.UUID `gorm:"type:uuid" json:"supplier_id,omitempty"`
	Quantity        float64    `gorm:"not null" json:"quantity" validate:"gt=0"`
	PriceAtTime     float64    `gorm:"not null" json:"price_at_time"`
	CostPriceAtTime float64    `gorm:"not null" json:"cost_price_at_time"`

	Product *Product `json:"product,omitempty"`
}

const (
	PaymentCash         = "Cash"
	PaymentUPI          = "UPI"
	PaymentBankTransfer = "Bank Transfer"
)

type OrderPayment struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount      float64   `gorm:"not null" json:"amount" validate:"gt=0"`
	Method      string    `gorm:"type:varchar(20);not null" json:"method" validate:"required,oneof=Cash UPI 'Bank Transfer'"`
	PaymentDate time.Time `gorm:"type:date;not null" json:"payment_date"`
	RefNumber   string    `gorm:"type:varchar(100)" json:"ref_number,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type OrderCancellation struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Reason      string    `gorm:"type:varchar(100);not null" json:"reason" validate:"required"`
	Notes       string    `json:"notes,omitempty"`
	CancelledAt time.Time `gorm:"not null" json:"cancelled_at"`
}

// CancellationReasons is the fixed reason list offered on cancel.
var CancellationReasons = []string{
	"Customer requested cancellation",
	"Product unavailable/out of stock",
	"Customer unreachable",
	"Quality issue",
	"Pricing disagreement",
	"Delivery/pickup issue",
	"Duplicate order",
	"Other",
}

// IsValidCancellationReason checks the reason against the fixed list.
func IsValidCancellationReason(reason string) bool {
	for _, r := range CancellationReasons {
		if r == reason {
			return true
		}
	}
	return false
}
