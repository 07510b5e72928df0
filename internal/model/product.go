package model

// Units of measure sold in the shop. Weight/volume units allow fractional
// quantities, the rest are whole counts.
const (
	UnitKg     = "kg"
	UnitGram   = "gram"
	UnitLiter  = "liter"
	UnitPiece  = "piece"
	UnitDozen  = "dozen"
	UnitPacket = "packet"
	UnitBox    = "box"
)

type Product struct {
	BaseModel
	Name          string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	UnitOfMeasure string  `gorm:"type:varchar(20);not null" json:"unit_of_measure" validate:"required,oneof=kg gram liter piece dozen packet box"`
	SellPrice     float64 `gorm:"not null;default:0" json:"sell_price" validate:"gte=0"`
	CurrentStock  float64 `gorm:"not null;default:0" json:"current_stock"`

	// Relations
	PriceHistory []PriceHistory `json:"price_history,omitempty"`
}

// ProductWithCost is the catalog row handed to clients: the product plus the
// cost price currently in effect from the price-history ledger.
type ProductWithCost struct {
	Product
	CurrentCostPrice float64 `json:"current_cost_price"`
}
