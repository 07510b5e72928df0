package service

import (
	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
	"faraalkhata/pkg/validator"

	"github.com/google/uuid"
)

// CustomerInput is the create/update payload for a directory entry.
type CustomerInput struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Notes       string   `json:"notes,omitempty"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

type CustomerService interface {
	CreateCustomer(input CustomerInput) (*model.Customer, error)
	UpdateCustomer(id uuid.UUID, input CustomerInput) (*model.Customer, error)
	GetCustomers(params repository.CustomerListParams) ([]model.Customer, error)
	GetCustomer(id uuid.UUID) (*model.Customer, error)
	SetArchived(id uuid.UUID, archived bool) error
	ListCategories() ([]model.Category, error)
	CreateCategory(name string) (*model.Category, error)
}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) CreateCustomer(input CustomerInput) (*model.Customer, error) {
	name, phone, categoryIDs, err := parseCustomerInput(input)
	if err != nil {
		return nil, err
	}

	customer := &model.Customer{
		Name:  name,
		Phone: phone,
		Notes: input.Notes,
	}
	if err := s.customers.Create(customer, categoryIDs); err != nil {
		return nil, err
	}
	return s.customers.FindByID(customer.ID)
}

func (s *customerService) UpdateCustomer(id uuid.UUID, input CustomerInput) (*model.Customer, error) {
	name, phone, categoryIDs, err := parseCustomerInput(input)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByID(id)
	if err != nil {
		return nil, err
	}
	customer.Name = name
	customer.Phone = phone
	customer.Notes = input.Notes
	if err := s.customers.Update(customer); err != nil {
		return nil, err
	}
	if err := s.customers.ReplaceCategories(id, categoryIDs); err != nil {
		return nil, err
	}
	return s.customers.FindByID(id)
}

func (s *customerService) GetCustomers(params repository.CustomerListParams) ([]model.Customer, error) {
	return s.customers.FindAll(params)
}

func (s *customerService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	return s.customers.FindByID(id)
}

// SetArchived hides or restores a customer in listings. Never touches the
// customer's orders.
func (s *customerService) SetArchived(id uuid.UUID, archived bool) error {
	return s.customers.SetArchived(id, archived)
}

func (s *customerService) ListCategories() ([]model.Category, error) {
	return s.customers.ListCategories()
}

func (s *customerService) CreateCategory(name string) (*model.Category, error) {
	if name == "" {
		return nil, validationErr("name", "category name is required")
	}
	category := &model.Category{Name: name}
	if err := s.customers.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// parseCustomerInput normalizes the phone to bare digits and validates the
// Indian mobile format before anything hits the store.
func parseCustomerInput(input CustomerInput) (name, phone string, categoryIDs []uuid.UUID, err error) {
	if input.Name == "" {
		return "", "", nil, validationErr("name", "name is required")
	}
	phone = validator.CleanPhone(input.Phone)
	if !validator.IsValidIndianPhone(phone) {
		return "", "", nil, validationErr("phone", "please enter a valid 10-digit Indian mobile number")
	}
	for _, raw := range input.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return "", "", nil, validationErr("category_ids", "invalid category id")
		}
		categoryIDs = append(categoryIDs, id)
	}
	return input.Name, phone, categoryIDs, nil
}
