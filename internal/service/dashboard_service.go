package service

import (
	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
)

// DashboardStats is the overview card data.
type DashboardStats struct {
	TotalOrders        int64   `json:"total_orders"`
	PendingOrders      int64   `json:"pending_orders"`
	ReadyOrders        int64   `json:"ready_orders"`
	CompletedOrders    int64   `json:"completed_orders"`
	CancelledOrders    int64   `json:"cancelled_orders"`
	CompletedRevenue   float64 `json:"completed_revenue"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	LowStockCount      int64   `json:"low_stock_count"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
}

type dashboardService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository) DashboardService {
	return &dashboardService{orders: orders, products: products}
}

const lowStockThreshold = 10

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	counts, err := s.orders.StatusCounts()
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.CompletedRevenue()
	if err != nil {
		return nil, err
	}
	balance, err := s.orders.OutstandingBalance()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.LowStockCount(lowStockThreshold)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &DashboardStats{
		TotalOrders:        total,
		PendingOrders:      counts[model.StatusPending],
		ReadyOrders:        counts[model.StatusReadyForPickup],
		CompletedOrders:    counts[model.StatusCompleted],
		CancelledOrders:    counts[model.StatusCancelled],
		CompletedRevenue:   revenue,
		OutstandingBalance: balance,
		LowStockCount:      lowStock,
	}, nil
}
