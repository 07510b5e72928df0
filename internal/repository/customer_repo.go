package repository

import (
	"errors"

	"faraalkhata/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerListParams filters and sorts the customer directory.
type CustomerListParams struct {
	ShowArchived bool
	Query        string // matches name or phone
	SortBy       string // name | created_at | updated_at
	SortDesc     bool
}

type CustomerRepository interface {
	Create(customer *model.Customer, categoryIDs []uuid.UUID) error
	FindAll(params CustomerListParams) ([]model.Customer, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
	SetArchived(id uuid.UUID, archived bool) error
	ReplaceCategories(id uuid.UUID, categoryIDs []uuid.UUID) error
	ListCategories() ([]model.Category, error)
	CreateCategory(category *model.Category) error
	SeedDefaultCategories() error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer, categoryIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		var categories []model.Category
		if err := tx.Find(&categories, "id IN ?", categoryIDs).Error; err != nil {
			return err
		}
		return tx.Model(customer).Association("Categories").Replace(categories)
	})
}

func (r *customerRepo) FindAll(params CustomerListParams) ([]model.Customer, error) {
	query := r.db.Preload("Categories")

	if !params.ShowArchived {
		query = query.Where("is_archived = ?", false)
	}
	if params.Query != "" {
		like := "%" + params.Query + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", like, like)
	}

	sortBy := params.SortBy
	switch sortBy {
	case "created_at", "updated_at":
	default:
		sortBy = "name"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	var customers []model.Customer
	err := query.Order(sortBy + " " + direction).Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Preload("Categories").First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

// SetArchived soft-archives a customer. Orders keep their foreign key; this
// only hides the customer from default listings.
func (r *customerRepo) SetArchived(id uuid.UUID, archived bool) error {
	res := r.db.Model(&model.Customer{}).Where("id = ?", id).Update("is_archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepo) ReplaceCategories(id uuid.UUID, categoryIDs []uuid.UUID) error {
	var customer model.Customer
	if err := r.db.First(&customer, "id = ?", id).Error; err != nil {
		return err
	}
	var categories []model.Category
	if len(categoryIDs) > 0 {
		if err := r.db.Find(&categories, "id IN ?", categoryIDs).Error; err != nil {
			return err
		}
	}
	return r.db.Model(&customer).Association("Categories").Replace(categories)
}

func (r *customerRepo) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *customerRepo) CreateCategory(category *model.Category) error {
	return r.db.Create(category).Error
}

// SeedDefaultCategories creates the predefined category set if missing.
func (r *customerRepo) SeedDefaultCategories() error {
	for _, name := range model.PredefinedCategories {
		var existing model.Category
		err := r.db.First(&existing, "name = ?", name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.db.Create(&model.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
