package model

type Supplier struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone    string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email    string `gorm:"type:varchar(255)" json:"email,omitempty" validate:"omitempty,email"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}
