package model

type Customer struct {
	BaseModel
	Name       string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone" validate:"required,indian_phone"`
	Notes      string `json:"notes"`
	IsArchived bool   `gorm:"not null;default:false" json:"is_archived"`

	// Relations
	Categories []Category `gorm:"many2many:customer_categories;" json:"categories,omitempty"`
}

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}

// PredefinedCategories are seeded on first boot.
var PredefinedCategories = []string{
	"Family",
	"Friend",
	"Regular Customer",
	"Wholesale",
	"Retail",
}
