package service

import "faraalkhata/internal/model"

// Financials is the derived money view of an order. Every figure comes from
// the order's frozen snapshots and recorded payments; live catalog prices
// play no part, so later price changes never rewrite history.
type Financials struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	DeliveryFee        float64 `json:"delivery_fee"`
	TotalAmount        float64 `json:"total_amount"`
	TotalPaid          float64 `json:"total_paid"`
	BalanceDue         float64 `json:"balance_due"`
	ReferralCommission float64 `json:"referral_commission"`
	CostPriceTotal     float64 `json:"cost_price_total"`
	Profit             float64 `json:"profit"`
}

// ComputeFinancials derives the financial view of an order. Pure: expects
// Items, Payments and ReferralPartner to be loaded, mutates nothing.
func ComputeFinancials(order *model.Order) Financials {
	var subtotal, costTotal float64
	for _, item := range order.Items {
		subtotal += item.PriceAtTime * item.Quantity
		costTotal += item.CostPriceAtTime * item.Quantity
	}

	var totalPaid float64
	for _, p := range order.Payments {
		totalPaid += p.Amount
	}

	var commission float64
	if partner := order.ReferralPartner; partner != nil {
		if partner.CommissionType == model.CommissionPercent {
			commission = order.TotalAmount * partner.CommissionValue / 100
		} else {
			commission = partner.CommissionValue
		}
	}

	return Financials{
		Subtotal:           subtotal,
		DiscountAmount:     order.DiscountAmount,
		DeliveryFee:        order.DeliveryFee,
		TotalAmount:        order.TotalAmount,
		TotalPaid:          totalPaid,
		BalanceDue:         order.TotalAmount - totalPaid,
		ReferralCommission: commission,
		CostPriceTotal:     costTotal,
		Profit:             order.TotalAmount - costTotal - commission,
	}
}
