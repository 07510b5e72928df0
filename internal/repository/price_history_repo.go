package repository

import (
	"errors"

	"faraalkhata/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	Append(tx *gorm.DB, entry *model.PriceHistory) error
	LatestForProduct(productID uuid.UUID) (*model.PriceHistory, error)
	LatestCosts() (map[uuid.UUID]float64, error)
}

type priceHistoryRepo struct {
	db *gorm.DB
}

func NewPriceHistoryRepo(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db}
}

// Append inserts a new ledger row. The ledger is append-only, so this
// repository carries no update or delete.
func (r *priceHistoryRepo) Append(tx *gorm.DB, entry *model.PriceHistory) error {
	return tx.Create(entry).Error
}

// LatestForProduct returns the cost-price row currently in effect, i.e. the
// one with the newest effective_from_date.
func (r *priceHistoryRepo) LatestForProduct(productID uuid.UUID) (*model.PriceHistory, error) {
	var entry model.PriceHistory
	err := r.db.
		Where("product_id = ?", productID).
		Order("effective_from_date DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// LatestCosts returns the current cost price per product in one query,
// used to join costs onto catalog listings.
func (r *priceHistoryRepo) LatestCosts() (map[uuid.UUID]float64, error) {
	var entries []model.PriceHistory
	err := r.db.
		Raw(`SELECT DISTINCT ON (product_id) *
		     FROM price_histories
		     ORDER BY product_id, effective_from_date DESC`).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	costs := make(map[uuid.UUID]float64, len(entries))
	for _, e := range entries {
		costs[e.ProductID] = e.CostPrice
	}
	return costs, nil
}
