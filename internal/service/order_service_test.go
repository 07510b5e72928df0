package service

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
	"faraalkhata/internal/wizard"
	"faraalkhata/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubTx runs the transaction body directly. The repositories below ignore
// the tx handle, so passing nil is fine.
type stubTx struct{}

func (stubTx) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

type stubOrderRepo struct {
	orders        map[uuid.UUID]*model.Order
	items         map[uuid.UUID][]model.OrderItem
	payments      map[uuid.UUID][]model.OrderPayment
	cancellations []model.OrderCancellation
	displaySeq    int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uuid.UUID]*model.Order),
		items:    make(map[uuid.UUID][]model.OrderItem),
		payments: make(map[uuid.UUID][]model.OrderPayment),
	}
}

func (r *stubOrderRepo) Create(_ *gorm.DB, order *model.Order) error {
	order.ID = uuid.New()
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) InsertItems(_ *gorm.DB, items []model.OrderItem) error {
	for _, item := range items {
		r.items[item.OrderID] = append(r.items[item.OrderID], item)
	}
	return nil
}

func (r *stubOrderRepo) DeleteItems(_ *gorm.DB, orderID uuid.UUID) error {
	delete(r.items, orderID)
	return nil
}

func (r *stubOrderRepo) ListItems(_ *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error) {
	return r.items[orderID], nil
}

func (r *stubOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	copied.Items = r.items[id]
	copied.Payments = r.payments[id]
	return &copied, nil
}

func (r *stubOrderRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(id)
}

func (r *stubOrderRepo) FindAll(filters repository.OrderFilters) ([]model.Order, error) {
	var out []model.Order
	for _, order := range r.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateFields(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if v, ok := fields["total_amount"].(float64); ok {
		order.TotalAmount = v
	}
	if v, ok := fields["discount_amount"].(float64); ok {
		order.DiscountAmount = v
	}
	if v, ok := fields["delivery_fee"].(float64); ok {
		order.DeliveryFee = v
	}
	if v, ok := fields["notes"].(string); ok {
		order.Notes = v
	}
	return nil
}

func (r *stubOrderRepo) UpdateStatus(_ *gorm.DB, id uuid.UUID, status model.OrderStatus) error {
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (r *stubOrderRepo) NextDisplayID(_ *gorm.DB, now time.Time) (string, error) {
	r.displaySeq++
	return fmt.Sprintf("OID%d%03d", now.Year(), r.displaySeq), nil
}

func (r *stubOrderRepo) CreateCancellation(_ *gorm.DB, cancellation *model.OrderCancellation) error {
	r.cancellations = append(r.cancellations, *cancellation)
	return nil
}

func (r *stubOrderRepo) SumPayments(_ *gorm.DB, orderID uuid.UUID) (float64, error) {
	var sum float64
	for _, p := range r.payments[orderID] {
		sum += p.Amount
	}
	return sum, nil
}

func (r *stubOrderRepo) InsertPayment(_ *gorm.DB, payment *model.OrderPayment) error {
	r.payments[payment.OrderID] = append(r.payments[payment.OrderID], *payment)
	return nil
}

func (r *stubOrderRepo) StatusCounts() (map[model.OrderStatus]int64, error) {
	counts := make(map[model.OrderStatus]int64)
	for _, order := range r.orders {
		counts[order.Status]++
	}
	return counts, nil
}

func (r *stubOrderRepo) CompletedRevenue() (float64, error)   { return 0, nil }
func (r *stubOrderRepo) OutstandingBalance() (float64, error) { return 0, nil }

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	stock    map[uuid.UUID]float64
	failIncr map[uuid.UUID]bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		stock:    make(map[uuid.UUID]float64),
		failIncr: make(map[uuid.UUID]bool),
	}
}

func (r *stubProductRepo) add(name, unit string, sellPrice, stock float64) uuid.UUID {
	id := uuid.New()
	p := &model.Product{Name: name, UnitOfMeasure: unit, SellPrice: sellPrice, CurrentStock: stock}
	p.ID = id
	r.products[id] = p
	r.stock[id] = stock
	return id
}

func (r *stubProductRepo) Create(_ *gorm.DB, product *model.Product) error {
	product.ID = uuid.New()
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) FindAll() ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (r *stubProductRepo) Update(_ *gorm.DB, product *model.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) Delete(id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DecrementStock(_ *gorm.DB, id uuid.UUID, qty float64) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	r.stock[id] -= qty
	return nil
}

func (r *stubProductRepo) IncrementStock(_ *gorm.DB, id uuid.UUID, qty float64) error {
	if r.failIncr[id] {
		return fmt.Errorf("increment failed")
	}
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	r.stock[id] += qty
	return nil
}

func (r *stubProductRepo) LowStockCount(threshold float64) (int64, error) { return 0, nil }

type stubHistoryRepo struct {
	latest  map[uuid.UUID]*model.PriceHistory
	appends int
}

func newStubHistoryRepo() *stubHistoryRepo {
	return &stubHistoryRepo{latest: make(map[uuid.UUID]*model.PriceHistory)}
}

func (r *stubHistoryRepo) Append(_ *gorm.DB, entry *model.PriceHistory) error {
	r.latest[entry.ProductID] = entry
	r.appends++
	return nil
}

func (r *stubHistoryRepo) LatestForProduct(productID uuid.UUID) (*model.PriceHistory, error) {
	return r.latest[productID], nil
}

func (r *stubHistoryRepo) LatestCosts() (map[uuid.UUID]float64, error) {
	out := make(map[uuid.UUID]float64)
	for id, entry := range r.latest {
		out[id] = entry.CostPrice
	}
	return out, nil
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

type orderFixture struct {
	svc      OrderService
	orders   *stubOrderRepo
	products *stubProductRepo
	history  *stubHistoryRepo
	chakliID uuid.UUID
	ladooID  uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	orders := newStubOrderRepo()
	products := newStubProductRepo()
	history := newStubHistoryRepo()

	f := &orderFixture{
		orders:   orders,
		products: products,
		history:  history,
		svc:      NewOrderService(stubTx{}, orders, products, history, newTestHub()),
	}
	f.chakliID = products.add("Chakli", "kg", 150, 10)
	f.ladooID = products.add("Ladoo Box", "box", 300, 5)
	history.latest[f.chakliID] = &model.PriceHistory{ProductID: f.chakliID, CostPrice: 80}
	history.latest[f.ladooID] = &model.PriceHistory{ProductID: f.ladooID, CostPrice: 200}
	return f
}

func (f *orderFixture) draft() *wizard.Draft {
	return &wizard.Draft{
		CustomerID: uuid.NewString(),
		DueDate:    "2026-10-20",
		Items: []wizard.Item{
			{ProductID: f.chakliID.String(), Quantity: 2},
			{ProductID: f.ladooID.String(), Quantity: 1},
		},
	}
}

var actor = Actor{ID: uuid.NewString(), Name: "Owner", Email: "owner@faraalkhata.app"}

func TestCreateOrderSnapshotsPricesAndDecrementsStock(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, 600.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 150.0, order.Items[0].PriceAtTime)
	assert.Equal(t, 80.0, order.Items[0].CostPriceAtTime)
	assert.Equal(t, 300.0, order.Items[1].PriceAtTime)
	assert.Equal(t, 200.0, order.Items[1].CostPriceAtTime)

	assert.Equal(t, 8.0, f.products.stock[f.chakliID])
	assert.Equal(t, 4.0, f.products.stock[f.ladooID])
}

func TestCreateOrderAllocatesSequentialDisplayIDs(t *testing.T) {
	f := newOrderFixture(t)

	first, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("OID%d001", year), first.DisplayID)
	assert.Equal(t, fmt.Sprintf("OID%d002", year), second.DisplayID)
}

func TestCreateOrderAppliesDiscountAndDeliveryFee(t *testing.T) {
	f := newOrderFixture(t)
	draft := f.draft()
	draft.DiscountAmount = 50
	draft.DeliveryFee = 30

	order, err := f.svc.CreateOrder(draft, actor)
	require.NoError(t, err)

	assert.Equal(t, 580.0, order.TotalAmount)
}

func TestCreateOrderRejectsOversizedDiscount(t *testing.T) {
	f := newOrderFixture(t)
	draft := f.draft()
	draft.DiscountAmount = 1000

	_, err := f.svc.CreateOrder(draft, actor)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, 10.0, f.products.stock[f.chakliID])
}

func TestCreateOrderRejectsFractionalWholeUnit(t *testing.T) {
	f := newOrderFixture(t)
	draft := f.draft()
	draft.Items = []wizard.Item{{ProductID: f.ladooID.String(), Quantity: 1.5}}

	_, err := f.svc.CreateOrder(draft, actor)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestCreateOrderAllowsFractionalWeightUnit(t *testing.T) {
	f := newOrderFixture(t)
	draft := f.draft()
	draft.Items = []wizard.Item{{ProductID: f.chakliID.String(), Quantity: 0.25}}

	order, err := f.svc.CreateOrder(draft, actor)
	require.NoError(t, err)
	assert.Equal(t, 37.5, order.TotalAmount)
}

func TestCreateOrderProceedsPastShortfall(t *testing.T) {
	f := newOrderFixture(t)
	draft := f.draft()
	draft.Items = []wizard.Item{{ProductID: f.chakliID.String(), Quantity: 25}}

	order, err := f.svc.CreateOrder(draft, actor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, order.Status)
	// Stock goes negative; the shortfall is advisory, not blocking.
	assert.Equal(t, -15.0, f.products.stock[f.chakliID])
}

func TestCreateOrderRequiresCustomerAndItems(t *testing.T) {
	f := newOrderFixture(t)

	draft := f.draft()
	draft.CustomerID = ""
	_, err := f.svc.CreateOrder(draft, actor)
	assert.True(t, IsValidationError(err))

	draft = f.draft()
	draft.Items = nil
	_, err = f.svc.CreateOrder(draft, actor)
	assert.True(t, IsValidationError(err))
}

func TestCreateOrderRequiresAddressForDelivery(t *testing.T) {
	f := newOrderFixture(t)
	draft := f.draft()
	draft.NeedsDelivery = true

	_, err := f.svc.CreateOrder(draft, actor)
	assert.True(t, IsValidationError(err))

	draft.DeliveryAddressID = uuid.NewString()
	_, err = f.svc.CreateOrder(draft, actor)
	assert.NoError(t, err)
}

func TestUpdateOrderRepricesAgainstCurrentCatalog(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	// Price rise after creation: the edit must snapshot the new price.
	f.products.products[f.chakliID].SellPrice = 200

	draft := f.draft()
	draft.Items = []wizard.Item{{ProductID: f.chakliID.String(), Quantity: 2}}
	updated, err := f.svc.UpdateOrder(order.ID, draft, actor)
	require.NoError(t, err)

	assert.Equal(t, 400.0, updated.TotalAmount)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 200.0, updated.Items[0].PriceAtTime)
}

func TestUpdateOrderDoesNotTouchStock(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	require.Equal(t, 8.0, f.products.stock[f.chakliID])

	draft := f.draft()
	draft.Items = []wizard.Item{{ProductID: f.chakliID.String(), Quantity: 9}}
	_, err = f.svc.UpdateOrder(order.ID, draft, actor)
	require.NoError(t, err)

	assert.Equal(t, 8.0, f.products.stock[f.chakliID])
}

func TestUpdateOrderBlockedWhenCompleted(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	f.orders.orders[order.ID].Status = model.StatusCompleted

	_, err = f.svc.UpdateOrder(order.ID, f.draft(), actor)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestCancelOrderRestoresStockAndRecordsReason(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	require.Equal(t, 8.0, f.products.stock[f.chakliID])

	err = f.svc.CancelOrder(order.ID, CancelInput{Reason: "Customer requested cancellation"}, actor)
	require.NoError(t, err)

	found, err := f.orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, found.Status)
	assert.Equal(t, 10.0, f.products.stock[f.chakliID])
	assert.Equal(t, 5.0, f.products.stock[f.ladooID])
	require.Len(t, f.orders.cancellations, 1)
	assert.Equal(t, "Customer requested cancellation", f.orders.cancellations[0].Reason)
}

func TestCancelOrderRejectsUnknownReason(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	err = f.svc.CancelOrder(order.ID, CancelInput{Reason: "felt like it"}, actor)
	assert.True(t, IsValidationError(err))
	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusPending, found.Status)
}

func TestCancelOrderBlockedWhenTerminal(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelOrder(order.ID, CancelInput{Reason: "Other"}, actor))

	// Second cancel hits the terminal guard; stock is not restored twice.
	err = f.svc.CancelOrder(order.ID, CancelInput{Reason: "Other"}, actor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 10.0, f.products.stock[f.chakliID])
	assert.Len(t, f.orders.cancellations, 1)
}

func TestCancelOrderSurvivesPartialRestoreFailure(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	f.products.failIncr[f.chakliID] = true

	err = f.svc.CancelOrder(order.ID, CancelInput{Reason: "Other"}, actor)
	require.NoError(t, err)

	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusCancelled, found.Status)
	assert.Equal(t, 8.0, f.products.stock[f.chakliID])
	assert.Equal(t, 5.0, f.products.stock[f.ladooID])
}

func TestLogPaymentRejectsOverpayment(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: order.TotalAmount + 1, Method: model.PaymentCash, PaymentDate: "2026-10-21",
	}, actor)

	assert.ErrorIs(t, err, ErrOverpayment)
	assert.Empty(t, f.orders.payments[order.ID])
	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusPending, found.Status)
}

func TestLogPaymentCumulativeOverpaymentRejected(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: 400, Method: model.PaymentUPI, PaymentDate: "2026-10-21",
	}, actor)
	require.NoError(t, err)

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: 201, Method: model.PaymentCash, PaymentDate: "2026-10-22",
	}, actor)
	assert.ErrorIs(t, err, ErrOverpayment)
	assert.Len(t, f.orders.payments[order.ID], 1)
}

func TestFullPaymentAutoCompletesFromReadyForPickup(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkReadyForPickup(order.ID, actor))

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: order.TotalAmount, Method: model.PaymentBankTransfer, PaymentDate: "2026-10-21",
	}, actor)
	require.NoError(t, err)

	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusCompleted, found.Status)
}

func TestFullPaymentDoesNotCompleteFromPending(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: order.TotalAmount, Method: model.PaymentCash, PaymentDate: "2026-10-21",
	}, actor)
	require.NoError(t, err)

	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusPending, found.Status)
}

func TestPartialPaymentDoesNotComplete(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkReadyForPickup(order.ID, actor))

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: 100, Method: model.PaymentCash, PaymentDate: "2026-10-21",
	}, actor)
	require.NoError(t, err)

	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusReadyForPickup, found.Status)
}

func TestLogPaymentValidatesInput(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	_, err = f.svc.LogPayment(order.ID, PaymentInput{Amount: 0, Method: model.PaymentCash, PaymentDate: "2026-10-21"}, actor)
	assert.True(t, IsValidationError(err))

	_, err = f.svc.LogPayment(order.ID, PaymentInput{Amount: 10, Method: "Cheque", PaymentDate: "2026-10-21"}, actor)
	assert.True(t, IsValidationError(err))

	_, err = f.svc.LogPayment(order.ID, PaymentInput{Amount: 10, Method: model.PaymentCash, PaymentDate: "21-10-2026"}, actor)
	assert.True(t, IsValidationError(err))
}

func TestMarkReadyForPickupOnlyFromPending(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkReadyForPickup(order.ID, actor))
	found, _ := f.orders.FindByID(order.ID)
	assert.Equal(t, model.StatusReadyForPickup, found.Status)

	assert.ErrorIs(t, f.svc.MarkReadyForPickup(order.ID, actor), ErrInvalidTransition)
}

func TestGetFinancialsReflectsPayments(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.svc.CreateOrder(f.draft(), actor)
	require.NoError(t, err)

	_, err = f.svc.LogPayment(order.ID, PaymentInput{
		Amount: 250, Method: model.PaymentUPI, PaymentDate: "2026-10-21",
	}, actor)
	require.NoError(t, err)

	fin, err := f.svc.GetFinancials(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, fin.TotalAmount)
	assert.Equal(t, 250.0, fin.TotalPaid)
	assert.Equal(t, 350.0, fin.BalanceDue)
	assert.Equal(t, 360.0, fin.CostPriceTotal)
}
