package service

import (
	"testing"

	"faraalkhata/internal/model"

	"github.com/stretchr/testify/assert"
)

func festiveOrder() *model.Order {
	return &model.Order{
		Status:         model.StatusPending,
		TotalAmount:    550,
		DiscountAmount: 50,
		DeliveryFee:    0,
		Items: []model.OrderItem{
			{Quantity: 2, PriceAtTime: 150, CostPriceAtTime: 80},
			{Quantity: 1, PriceAtTime: 300, CostPriceAtTime: 200},
		},
	}
}

func TestComputeFinancialsFromSnapshots(t *testing.T) {
	order := festiveOrder()
	order.Payments = []model.OrderPayment{
		{Amount: 200, Method: model.PaymentCash},
		{Amount: 100, Method: model.PaymentUPI},
	}

	fin := ComputeFinancials(order)

	assert.Equal(t, 600.0, fin.Subtotal)
	assert.Equal(t, 50.0, fin.DiscountAmount)
	assert.Equal(t, 550.0, fin.TotalAmount)
	assert.Equal(t, 300.0, fin.TotalPaid)
	assert.Equal(t, 250.0, fin.BalanceDue)
	assert.Equal(t, 360.0, fin.CostPriceTotal)
	assert.Equal(t, 190.0, fin.Profit)
	assert.Equal(t, 0.0, fin.ReferralCommission)
}

func TestComputeFinancialsPercentCommission(t *testing.T) {
	order := festiveOrder()
	order.ReferralPartner = &model.ReferralPartner{
		CommissionType:  model.CommissionPercent,
		CommissionValue: 10,
	}

	fin := ComputeFinancials(order)

	assert.Equal(t, 55.0, fin.ReferralCommission)
	assert.Equal(t, 550.0-360.0-55.0, fin.Profit)
}

func TestComputeFinancialsFixedCommission(t *testing.T) {
	order := festiveOrder()
	order.ReferralPartner = &model.ReferralPartner{
		CommissionType:  model.CommissionFixed,
		CommissionValue: 75,
	}

	fin := ComputeFinancials(order)

	assert.Equal(t, 75.0, fin.ReferralCommission)
	assert.Equal(t, 550.0-360.0-75.0, fin.Profit)
}

func TestComputeFinancialsNoPayments(t *testing.T) {
	order := festiveOrder()

	fin := ComputeFinancials(order)

	assert.Equal(t, 0.0, fin.TotalPaid)
	assert.Equal(t, order.TotalAmount, fin.BalanceDue)
}

// Changing the catalog price after the order exists must not change its
// financials: the view reads the line snapshots only.
func TestComputeFinancialsIgnoresLivePrices(t *testing.T) {
	order := festiveOrder()
	before := ComputeFinancials(order)

	// Nothing on the order references live catalog state, so recomputing
	// yields the same figures.
	after := ComputeFinancials(order)

	assert.Equal(t, before, after)
}
