package service

import (
	"testing"

	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCustomerRepo struct {
	customers  map[uuid.UUID]*model.Customer
	categories map[uuid.UUID][]uuid.UUID
	catalog    []model.Category
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		customers:  make(map[uuid.UUID]*model.Customer),
		categories: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *stubCustomerRepo) Create(customer *model.Customer, categoryIDs []uuid.UUID) error {
	customer.ID = uuid.New()
	r.customers[customer.ID] = customer
	r.categories[customer.ID] = categoryIDs
	return nil
}

func (r *stubCustomerRepo) FindAll(params repository.CustomerListParams) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.IsArchived && !params.ShowArchived {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) Update(customer *model.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *stubCustomerRepo) SetArchived(id uuid.UUID, archived bool) error {
	c, ok := r.customers[id]
	if !ok {
		return repository.ErrCustomerNotFound
	}
	c.IsArchived = archived
	return nil
}

func (r *stubCustomerRepo) ReplaceCategories(id uuid.UUID, categoryIDs []uuid.UUID) error {
	r.categories[id] = categoryIDs
	return nil
}

func (r *stubCustomerRepo) ListCategories() ([]model.Category, error) {
	return r.catalog, nil
}

func (r *stubCustomerRepo) CreateCategory(category *model.Category) error {
	category.ID = uuid.New()
	r.catalog = append(r.catalog, *category)
	return nil
}

func (r *stubCustomerRepo) SeedDefaultCategories() error { return nil }

func TestCreateCustomerNormalizesPhone(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	customer, err := svc.CreateCustomer(CustomerInput{
		Name:  "Asha Joshi",
		Phone: " 98765-43210 ",
	})
	require.NoError(t, err)

	assert.Equal(t, "9876543210", customer.Phone)
}

func TestCreateCustomerRejectsBadPhones(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	for _, phone := range []string{"", "12345", "5876543210", "98765432101"} {
		_, err := svc.CreateCustomer(CustomerInput{Name: "X", Phone: phone})
		assert.True(t, IsValidationError(err), phone)
	}
	assert.Empty(t, repo.customers)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	_, err := svc.CreateCustomer(CustomerInput{Phone: "9876543210"})
	assert.True(t, IsValidationError(err))
}

func TestUpdateCustomerReplacesCategories(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	customer, err := svc.CreateCustomer(CustomerInput{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)

	catID := uuid.New()
	_, err = svc.UpdateCustomer(customer.ID, CustomerInput{
		Name:        "Asha Joshi",
		Phone:       "9876543210",
		CategoryIDs: []string{catID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{catID}, repo.categories[customer.ID])
	assert.Equal(t, "Asha Joshi", repo.customers[customer.ID].Name)
}

func TestArchiveHidesCustomerFromDefaultListing(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	customer, err := svc.CreateCustomer(CustomerInput{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)

	require.NoError(t, svc.SetArchived(customer.ID, true))

	visible, err := svc.GetCustomers(repository.CustomerListParams{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.GetCustomers(repository.CustomerListParams{ShowArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.SetArchived(customer.ID, false))
	visible, err = svc.GetCustomers(repository.CustomerListParams{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo())

	_, err := svc.CreateCategory("")
	assert.True(t, IsValidationError(err))

	category, err := svc.CreateCategory("Festival Regular")
	require.NoError(t, err)
	assert.Equal(t, "Festival Regular", category.Name)
}
