package model

import (
	"time"

	"github.com/google/uuid"
)

// PriceHistory is the append-only cost-price ledger. Rows are never updated
// or deleted; the row with the latest EffectiveFromDate is the current cost
// price. Sell price lives on the product itself and has no history.
type PriceHistory struct {
	BaseModel
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	CostPrice         float64   `gorm:"not null" json:"cost_price" validate:"gte=0"`
	EffectiveFromDate time.Time `gorm:"not null" json:"effective_from_date"`
}
