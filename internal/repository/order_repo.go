package repository

import (
	"errors"
	"fmt"
	"time"

	"faraalkhata/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderFilters narrows order listings.
type OrderFilters struct {
	Statuses          []model.OrderStatus
	CustomerID        *uuid.UUID
	ReferralPartnerID *uuid.UUID
	DateFrom          *time.Time
	DateTo            *time.Time
	NeedsDelivery     *bool
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	InsertItems(tx *gorm.DB, items []model.OrderItem) error
	DeleteItems(tx *gorm.DB, orderID uuid.UUID) error
	ListItems(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindAll(filters OrderFilters) ([]model.Order, error)
	UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error
	NextDisplayID(tx *gorm.DB, now time.Time) (string, error)
	CreateCancellation(tx *gorm.DB, cancellation *model.OrderCancellation) error
	SumPayments(tx *gorm.DB, orderID uuid.UUID) (float64, error)
	InsertPayment(tx *gorm.DB, payment *model.OrderPayment) error
	StatusCounts() (map[model.OrderStatus]int64, error)
	CompletedRevenue() (float64, error)
	OutstandingBalance() (float64, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Omit(clause.Associations).Create(order).Error
}

func (r *orderRepo) InsertItems(tx *gorm.DB, items []model.OrderItem) error {
	return tx.Create(&items).Error
}

func (r *orderRepo) DeleteItems(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Delete(&model.OrderItem{}, "order_id = ?", orderID).Error
}

func (r *orderRepo) ListItems(tx *gorm.DB, orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := tx.Find(&items, "order_id = ?", orderID).Error
	return items, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("Customer").
		Preload("ReferralPartner").
		Preload("DeliveryAddress").
		Preload("Items").
		Preload("Items.Product").
		Preload("Payments").
		Preload("Cancellations").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row for the duration of the enclosing
// transaction. Serializes concurrent lifecycle operations per order.
func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindAll(filters OrderFilters) ([]model.Order, error) {
	query := r.db.
		Preload("Customer").
		Preload("ReferralPartner").
		Preload("DeliveryAddress").
		Preload("Items").
		Preload("Items.Product").
		Preload("Payments").
		Preload("Cancellations")

	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.ReferralPartnerID != nil {
		query = query.Where("referral_partner_id = ?", *filters.ReferralPartnerID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.NeedsDelivery != nil {
		if *filters.NeedsDelivery {
			query = query.Where("delivery_address_id IS NOT NULL")
		} else {
			query = query.Where("delivery_address_id IS NULL")
		}
	}

	var orders []model.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *orderRepo) UpdateStatus(tx *gorm.DB, id uuid.UUID, status model.OrderStatus) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

// NextDisplayID allocates the human-readable id, e.g. OID2025001. The
// sequence restarts each calendar year. Runs inside the create transaction
// so two creates cannot draw the same number.
func (r *orderRepo) NextDisplayID(tx *gorm.DB, now time.Time) (string, error) {
	year := now.Year()
	var count int64
	err := tx.Model(&model.Order{}).
		Where("display_id LIKE ?", fmt.Sprintf("OID%d%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OID%d%03d", year, count+1), nil
}

func (r *orderRepo) CreateCancellation(tx *gorm.DB, cancellation *model.OrderCancellation) error {
	return tx.Create(cancellation).Error
}

func (r *orderRepo) SumPayments(tx *gorm.DB, orderID uuid.UUID) (float64, error) {
	var total float64
	err := tx.Model(&model.OrderPayment{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *orderRepo) InsertPayment(tx *gorm.DB, payment *model.OrderPayment) error {
	return tx.Create(payment).Error
}

func (r *orderRepo) StatusCounts() (map[model.OrderStatus]int64, error) {
	rows, err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int64)
	for rows.Next() {
		var status model.OrderStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, nil
}

func (r *orderRepo) CompletedRevenue() (float64, error) {
	var revenue float64
	err := r.db.Model(&model.Order{}).
		Where("status = ?", model.StatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

// OutstandingBalance sums total minus payments over open orders.
func (r *orderRepo) OutstandingBalance() (float64, error) {
	var balance float64
	err := r.db.Raw(`
		SELECT COALESCE(SUM(o.total_amount - COALESCE(p.paid, 0)), 0)
		FROM orders o
		LEFT JOIN (
			SELECT order_id, SUM(amount) AS paid
			FROM order_payments
			GROUP BY order_id
		) p ON p.order_id = o.id
		WHERE o.status IN ?`,
		[]model.OrderStatus{model.StatusPending, model.StatusReadyForPickup}).
		Scan(&balance).Error
	return balance, err
}
