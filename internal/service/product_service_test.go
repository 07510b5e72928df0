package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc      ProductService
	products *stubProductRepo
	history  *stubHistoryRepo
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	products := newStubProductRepo()
	history := newStubHistoryRepo()
	return &productFixture{
		svc:      NewProductService(stubTx{}, products, history, newTestHub()),
		products: products,
		history:  history,
	}
}

func TestCreateProductWritesInitialHistoryRow(t *testing.T) {
	f := newProductFixture(t)

	product, err := f.svc.CreateProduct(ProductInput{
		Name: "Shankarpali", UnitOfMeasure: "kg", SellPrice: 180, CostPrice: 90,
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 1, f.history.appends)
	entry := f.history.latest[product.ID]
	require.NotNil(t, entry)
	assert.Equal(t, 90.0, entry.CostPrice)
}

func TestUpdateProductAppendsHistoryOnlyWhenCostChanges(t *testing.T) {
	f := newProductFixture(t)
	product, err := f.svc.CreateProduct(ProductInput{
		Name: "Shankarpali", UnitOfMeasure: "kg", SellPrice: 180, CostPrice: 90,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, 1, f.history.appends)

	// Same cost: no new ledger row.
	_, err = f.svc.UpdateProduct(product.ID, ProductInput{
		Name: "Shankarpali", UnitOfMeasure: "kg", SellPrice: 200, CostPrice: 90,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, f.history.appends)

	// Changed cost: exactly one more row.
	_, err = f.svc.UpdateProduct(product.ID, ProductInput{
		Name: "Shankarpali", UnitOfMeasure: "kg", SellPrice: 200, CostPrice: 110,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 2, f.history.appends)
	assert.Equal(t, 110.0, f.history.latest[product.ID].CostPrice)
}

func TestUpdateProductSellPriceOverwritesInPlace(t *testing.T) {
	f := newProductFixture(t)
	product, err := f.svc.CreateProduct(ProductInput{
		Name: "Karanji", UnitOfMeasure: "piece", SellPrice: 25, CostPrice: 12,
	}, actor)
	require.NoError(t, err)

	updated, err := f.svc.UpdateProduct(product.ID, ProductInput{
		Name: "Karanji", UnitOfMeasure: "piece", SellPrice: 30, CostPrice: 12,
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 30.0, updated.SellPrice)
	assert.Equal(t, 30.0, f.products.products[product.ID].SellPrice)
}

func TestCreateProductRejectsUnknownUnit(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.CreateProduct(ProductInput{
		Name: "Mystery", UnitOfMeasure: "barrel", SellPrice: 10, CostPrice: 5,
	}, actor)

	assert.True(t, IsValidationError(err))
	assert.Zero(t, f.history.appends)
}

func TestGetProductsCarriesCurrentCost(t *testing.T) {
	f := newProductFixture(t)
	product, err := f.svc.CreateProduct(ProductInput{
		Name: "Chivda", UnitOfMeasure: "packet", SellPrice: 60, CostPrice: 35,
	}, actor)
	require.NoError(t, err)

	list, err := f.svc.GetProducts()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, product.ID, list[0].ID)
	assert.Equal(t, 35.0, list[0].CurrentCostPrice)
}
