package service

import (
	"time"

	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
	"faraalkhata/internal/ws"
	"faraalkhata/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductInput is the create/update payload for a catalog product. Cost
// price goes to the history ledger, not the product row.
type ProductInput struct {
	Name          string  `json:"name" validate:"required"`
	UnitOfMeasure string  `json:"unit_of_measure" validate:"required,oneof=kg gram liter piece dozen packet box"`
	SellPrice     float64 `json:"sell_price" validate:"gte=0"`
	CostPrice     float64 `json:"cost_price" validate:"gte=0"`
}

type ProductService interface {
	CreateProduct(input ProductInput, actor Actor) (*model.Product, error)
	UpdateProduct(id uuid.UUID, input ProductInput, actor Actor) (*model.Product, error)
	GetProducts() ([]model.ProductWithCost, error)
	DeleteProduct(id uuid.UUID) error
}

type productService struct {
	db       txRunner
	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	wsHub    *ws.Hub
}

func NewProductService(
	db txRunner,
	products repository.ProductRepository,
	history repository.PriceHistoryRepository,
	hub *ws.Hub,
) ProductService {
	return &productService{db: db, products: products, history: history, wsHub: hub}
}

// CreateProduct inserts the product and its initial cost-price ledger row
// in one transaction; a product always has at least one history entry.
func (s *productService) CreateProduct(input ProductInput, actor Actor) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, validationErr(errs[0].FailedField, "failed on '"+errs[0].Tag+"'")
	}

	product := &model.Product{
		Name:          input.Name,
		UnitOfMeasure: input.UnitOfMeasure,
		SellPrice:     input.SellPrice,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.products.Create(tx, product); err != nil {
			return err
		}
		return s.history.Append(tx, &model.PriceHistory{
			ProductID:         product.ID,
			CostPrice:         input.CostPrice,
			EffectiveFromDate: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("product_created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"actor":      actor.Name,
	})
	return product, nil
}

// UpdateProduct changes the product in place. Sell price overwrites; cost
// price appends a new ledger row, and only when the value actually changed,
// so the ledger stays a true change history.
func (s *productService) UpdateProduct(id uuid.UUID, input ProductInput, actor Actor) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, validationErr(errs[0].FailedField, "failed on '"+errs[0].Tag+"'")
	}

	product, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		product.Name = input.Name
		product.UnitOfMeasure = input.UnitOfMeasure
		product.SellPrice = input.SellPrice
		if err := s.products.Update(tx, product); err != nil {
			return err
		}

		current, err := s.history.LatestForProduct(id)
		if err != nil {
			return err
		}
		if current == nil || current.CostPrice != input.CostPrice {
			return s.history.Append(tx, &model.PriceHistory{
				ProductID:         id,
				CostPrice:         input.CostPrice,
				EffectiveFromDate: time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("product_updated", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"actor":      actor.Name,
	})
	return product, nil
}

// GetProducts lists the catalog with the cost price currently in effect.
func (s *productService) GetProducts() ([]model.ProductWithCost, error) {
	products, err := s.products.FindAll()
	if err != nil {
		return nil, err
	}
	costs, err := s.history.LatestCosts()
	if err != nil {
		return nil, err
	}

	result := make([]model.ProductWithCost, len(products))
	for i, p := range products {
		result[i] = model.ProductWithCost{Product: p, CurrentCostPrice: costs[p.ID]}
	}
	return result, nil
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	return s.products.Delete(id)
}
