package repository

import (
	"faraalkhata/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindActive() ([]model.Supplier, error)
	Update(supplier *model.Supplier) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindActive() ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Update(supplier *model.Supplier) error {
	return r.db.Save(supplier).Error
}

type DeliveryAddressRepository interface {
	Create(address *model.DeliveryAddress) error
	FindByCustomer(customerID uuid.UUID) ([]model.DeliveryAddress, error)
}

type deliveryAddressRepo struct {
	db *gorm.DB
}

func NewDeliveryAddressRepo(db *gorm.DB) DeliveryAddressRepository {
	return &deliveryAddressRepo{db}
}

func (r *deliveryAddressRepo) Create(address *model.DeliveryAddress) error {
	return r.db.Create(address).Error
}

func (r *deliveryAddressRepo) FindByCustomer(customerID uuid.UUID) ([]model.DeliveryAddress, error) {
	var addresses []model.DeliveryAddress
	err := r.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&addresses).Error
	return addresses, err
}
