package repository

import (
	"errors"

	"faraalkhata/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	Delete(id uuid.UUID) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty float64) error
	IncrementStock(tx *gorm.DB, id uuid.UUID, qty float64) error
	LowStockCount(threshold float64) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// DecrementStock is a single atomic UPDATE so concurrent order creation
// never loses updates. It deliberately allows stock to go negative:
// insufficient stock is advisory, not a hard constraint.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty float64) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// IncrementStock restores stock on cancellation, same atomicity as
// DecrementStock.
func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, qty float64) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("current_stock", gorm.Expr("current_stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepo) LowStockCount(threshold float64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("current_stock < ?", threshold).Count(&count).Error
	return count, err
}
