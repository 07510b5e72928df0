package repository

import (
	"errors"

	"faraalkhata/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPartnerNotFound = errors.New("referral partner not found")

type ReferralPartnerRepository interface {
	Create(partner *model.ReferralPartner) error
	FindActive() ([]model.ReferralPartner, error)
	FindByID(id uuid.UUID) (*model.ReferralPartner, error)
	Update(partner *model.ReferralPartner) error
}

type referralPartnerRepo struct {
	db *gorm.DB
}

func NewReferralPartnerRepo(db *gorm.DB) ReferralPartnerRepository {
	return &referralPartnerRepo{db}
}

func (r *referralPartnerRepo) Create(partner *model.ReferralPartner) error {
	return r.db.Create(partner).Error
}

func (r *referralPartnerRepo) FindActive() ([]model.ReferralPartner, error) {
	var partners []model.ReferralPartner
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&partners).Error
	return partners, err
}

func (r *referralPartnerRepo) FindByID(id uuid.UUID) (*model.ReferralPartner, error) {
	var partner model.ReferralPartner
	if err := r.db.First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (r *referralPartnerRepo) Update(partner *model.ReferralPartner) error {
	return r.db.Save(partner).Error
}
