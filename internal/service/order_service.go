package service

import (
	"database/sql"
	"math"
	"time"

	"faraalkhata/internal/model"
	"faraalkhata/internal/pricing"
	"faraalkhata/internal/repository"
	"faraalkhata/internal/wizard"
	"faraalkhata/internal/ws"
	"faraalkhata/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dueDateLayout = "2006-01-02"

// txRunner is the slice of *gorm.DB the orchestrator needs: a transactional
// boundary. Tests substitute a stub; production passes the gorm handle.
type txRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// PaymentInput is one payment being logged against an order.
type PaymentInput struct {
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	PaymentDate string  `json:"payment_date"`
	RefNumber   string  `json:"ref_number,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// CancelInput carries the cancellation reason, which must come from the
// fixed reason list.
type CancelInput struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

type OrderService interface {
	CreateOrder(draft *wizard.Draft, actor Actor) (*model.Order, error)
	UpdateOrder(id uuid.UUID, draft *wizard.Draft, actor Actor) (*model.Order, error)
	CancelOrder(id uuid.UUID, input CancelInput, actor Actor) error
	LogPayment(id uuid.UUID, input PaymentInput, actor Actor) (*model.OrderPayment, error)
	MarkReadyForPickup(id uuid.UUID, actor Actor) error
	GetOrders(filters repository.OrderFilters) ([]model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	GetFinancials(id uuid.UUID) (*Financials, error)
}

type orderService struct {
	db       txRunner
	orders   repository.OrderRepository
	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	wsHub    *ws.Hub
}

func NewOrderService(
	db txRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	history repository.PriceHistoryRepository,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		db:       db,
		orders:   orders,
		products: products,
		history:  history,
		wsHub:    hub,
	}
}

// CreateOrder persists a draft as a pending order: snapshots prices,
// recomputes the total server-side, allocates the display id, inserts
// order + items in one transaction, then decrements stock per line. Stock
// decrements are best-effort; a failure is logged and does not void the
// order.
func (s *orderService) CreateOrder(draft *wizard.Draft, actor Actor) (*model.Order, error) {
	parsed, err := parseDraft(draft)
	if err != nil {
		return nil, err
	}

	items, subtotal, err := s.snapshotItems(parsed.items)
	if err != nil {
		return nil, err
	}
	if draft.DiscountAmount > subtotal+draft.DeliveryFee {
		return nil, validationErr("discount_amount", "discount cannot exceed subtotal plus delivery fee")
	}
	total := subtotal - draft.DiscountAmount + draft.DeliveryFee

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		displayID, err := s.orders.NextDisplayID(tx, time.Now())
		if err != nil {
			return err
		}

		order = &model.Order{
			DisplayID:         displayID,
			CustomerID:        parsed.customerID,
			ReferralPartnerID: parsed.referralPartnerID,
			DeliveryAddressID: parsed.deliveryAddressID,
			Status:            model.StatusPending,
			TotalAmount:       total,
			DiscountAmount:    draft.DiscountAmount,
			DeliveryFee:       draft.DeliveryFee,
			DueDate:           parsed.dueDate,
			Notes:             draft.Notes,
		}
		if err := s.orders.Create(tx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orders.InsertItems(tx, items); err != nil {
			return err
		}

		for _, item := range items {
			if err := s.products.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
				logger.Log.Warn().Err(err).
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID.String()).
					Msg("stock decrement failed during order creation")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	s.wsHub.BroadcastEvent("order_created", map[string]interface{}{
		"order_id":   order.ID,
		"display_id": order.DisplayID,
		"total":      order.TotalAmount,
		"actor":      actor.Name,
	})
	return order, nil
}

// UpdateOrder replaces an order's line items with freshly snapshotted ones
// and persists the recomputed total. Editing re-prices against the current
// catalog; it never preserves the original snapshots. Completed orders are
// immutable. Stock is deliberately not reconciled on edit.
func (s *orderService) UpdateOrder(id uuid.UUID, draft *wizard.Draft, actor Actor) (*model.Order, error) {
	parsed, err := parseDraft(draft)
	if err != nil {
		return nil, err
	}

	items, subtotal, err := s.snapshotItems(parsed.items)
	if err != nil {
		return nil, err
	}
	if draft.DiscountAmount > subtotal+draft.DeliveryFee {
		return nil, validationErr("discount_amount", "discount cannot exceed subtotal plus delivery fee")
	}
	total := subtotal - draft.DiscountAmount + draft.DeliveryFee

	err = s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if order.Status == model.StatusCompleted {
			return ErrTerminalState
		}

		if err := s.orders.DeleteItems(tx, id); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = id
		}
		if err := s.orders.InsertItems(tx, items); err != nil {
			return err
		}

		return s.orders.UpdateFields(tx, id, map[string]interface{}{
			"total_amount":        total,
			"discount_amount":     draft.DiscountAmount,
			"delivery_fee":        draft.DeliveryFee,
			"due_date":            parsed.dueDate,
			"notes":               draft.Notes,
			"delivery_address_id": parsed.deliveryAddressID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("order_updated", map[string]interface{}{
		"order_id": id,
		"total":    total,
		"actor":    actor.Name,
	})
	return s.orders.FindByID(id)
}

// CancelOrder flips the order to cancelled, records exactly one
// cancellation row, and restores stock per item. A failed restore on one
// item is logged and does not stop the rest.
func (s *orderService) CancelOrder(id uuid.UUID, input CancelInput, actor Actor) error {
	if !model.IsValidCancellationReason(input.Reason) {
		return validationErr("reason", "unknown cancellation reason")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrInvalidTransition
		}

		items, err := s.orders.ListItems(tx, id)
		if err != nil {
			return err
		}

		if err := s.orders.UpdateStatus(tx, id, model.StatusCancelled); err != nil {
			return err
		}
		if err := s.orders.CreateCancellation(tx, &model.OrderCancellation{
			OrderID:     id,
			Reason:      input.Reason,
			Notes:       input.Notes,
			CancelledAt: time.Now(),
		}); err != nil {
			return err
		}

		var failed int
		for _, item := range items {
			if err := s.products.IncrementStock(tx, item.ProductID, item.Quantity); err != nil {
				failed++
				logger.Log.Warn().Err(err).
					Str("order_id", id.String()).
					Str("product_id", item.ProductID.String()).
					Msg("stock restore failed during cancellation")
			}
		}
		if failed > 0 {
			logger.Log.Warn().
				Str("order_id", id.String()).
				Int("failed_items", failed).
				Int("total_items", len(items)).
				Msg("order cancelled with partial stock restoration")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.wsHub.BroadcastEvent("order_cancelled", map[string]interface{}{
		"order_id": id,
		"reason":   input.Reason,
		"actor":    actor.Name,
	})
	return nil
}

// LogPayment records a payment against an order. The order row is locked
// for the duration, so the overpayment check and the insert are serialized
// per order. Full payment auto-completes the order only from
// ready_for_pickup: payment alone does not mean the goods changed hands.
func (s *orderService) LogPayment(id uuid.UUID, input PaymentInput, actor Actor) (*model.OrderPayment, error) {
	if input.Amount <= 0 {
		return nil, validationErr("amount", "payment amount must be greater than zero")
	}
	switch input.Method {
	case model.PaymentCash, model.PaymentUPI, model.PaymentBankTransfer:
	default:
		return nil, validationErr("method", "unknown payment method")
	}
	paymentDate, err := time.Parse(dueDateLayout, input.PaymentDate)
	if err != nil {
		return nil, validationErr("payment_date", "payment date must be YYYY-MM-DD")
	}

	var payment *model.OrderPayment
	var completed bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}

		paid, err := s.orders.SumPayments(tx, id)
		if err != nil {
			return err
		}
		if paid+input.Amount > order.TotalAmount {
			return ErrOverpayment
		}

		payment = &model.OrderPayment{
			OrderID:     id,
			Amount:      input.Amount,
			Method:      input.Method,
			PaymentDate: paymentDate,
			RefNumber:   input.RefNumber,
			Notes:       input.Notes,
		}
		if err := s.orders.InsertPayment(tx, payment); err != nil {
			return err
		}

		if paid+input.Amount >= order.TotalAmount && order.Status == model.StatusReadyForPickup {
			if err := s.orders.UpdateStatus(tx, id, model.StatusCompleted); err != nil {
				return err
			}
			completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("payment_logged", map[string]interface{}{
		"order_id":  id,
		"amount":    input.Amount,
		"method":    input.Method,
		"completed": completed,
		"actor":     actor.Name,
	})
	return payment, nil
}

// MarkReadyForPickup is the operator action moving a prepared order out of
// pending. Only pending orders qualify.
func (s *orderService) MarkReadyForPickup(id uuid.UUID, actor Actor) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if order.Status != model.StatusPending {
			return ErrInvalidTransition
		}
		return s.orders.UpdateStatus(tx, id, model.StatusReadyForPickup)
	})
	if err != nil {
		return err
	}

	s.wsHub.BroadcastEvent("order_ready", map[string]interface{}{
		"order_id": id,
		"actor":    actor.Name,
	})
	return nil
}

func (s *orderService) GetOrders(filters repository.OrderFilters) ([]model.Order, error) {
	return s.orders.FindAll(filters)
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	return s.orders.FindByID(id)
}

func (s *orderService) GetFinancials(id uuid.UUID) (*Financials, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}
	fin := ComputeFinancials(order)
	return &fin, nil
}

// parsedDraft is a draft with ids and dates parsed, ready for persistence.
type parsedDraft struct {
	customerID        uuid.UUID
	referralPartnerID *uuid.UUID
	deliveryAddressID *uuid.UUID
	dueDate           time.Time
	items             []wizard.Item
}

// parseDraft validates the wizard draft's field-level constraints. These are
// the same predicates that gate the wizard's steps, re-enforced here because
// the orchestrator cannot trust the client to have run them.
func parseDraft(draft *wizard.Draft) (*parsedDraft, error) {
	customerID, err := uuid.Parse(draft.CustomerID)
	if err != nil || customerID == uuid.Nil {
		return nil, validationErr("customer_id", "please select a customer")
	}
	if len(draft.Items) == 0 {
		return nil, validationErr("items", "please add at least one product")
	}
	for _, item := range draft.Items {
		if _, err := uuid.Parse(item.ProductID); err != nil {
			return nil, validationErr("items", "invalid product id")
		}
		if item.Quantity <= 0 {
			return nil, validationErr("items", "quantity must be greater than zero")
		}
		if item.SupplierID != "" {
			if _, err := uuid.Parse(item.SupplierID); err != nil {
				return nil, validationErr("items", "invalid supplier id")
			}
		}
	}
	if draft.DiscountAmount < 0 {
		return nil, validationErr("discount_amount", "discount cannot be negative")
	}
	if draft.DeliveryFee < 0 {
		return nil, validationErr("delivery_fee", "delivery fee cannot be negative")
	}
	if len(draft.Notes) > 1000 {
		return nil, validationErr("notes", "notes cannot exceed 1000 characters")
	}
	dueDate, err := time.Parse(dueDateLayout, draft.DueDate)
	if err != nil {
		return nil, validationErr("due_date", "due date must be YYYY-MM-DD")
	}

	parsed := &parsedDraft{
		customerID: customerID,
		dueDate:    dueDate,
		items:      draft.Items,
	}
	if draft.ReferralPartnerID != "" {
		partnerID, err := uuid.Parse(draft.ReferralPartnerID)
		if err != nil {
			return nil, validationErr("referral_partner_id", "invalid referral partner id")
		}
		parsed.referralPartnerID = &partnerID
	}
	if draft.NeedsDelivery && draft.DeliveryAddressID == "" {
		return nil, validationErr("delivery_address_id", "delivery orders need an address")
	}
	if draft.DeliveryAddressID != "" {
		addressID, err := uuid.Parse(draft.DeliveryAddressID)
		if err != nil {
			return nil, validationErr("delivery_address_id", "invalid delivery address id")
		}
		parsed.deliveryAddressID = &addressID
	}
	return parsed, nil
}

// snapshotItems freezes the current sell price and the current cost price
// (latest price-history row) onto each line and returns the server-side
// subtotal. The snapshots are what every later financial view reads.
func (s *orderService) snapshotItems(items []wizard.Item) ([]model.OrderItem, float64, error) {
	rows := make([]model.OrderItem, 0, len(items))
	var subtotal float64

	for _, item := range items {
		productID, _ := uuid.Parse(item.ProductID)
		product, err := s.products.FindByID(productID)
		if err != nil {
			return nil, 0, validationErr("items", "product not found: "+item.ProductID)
		}
		if !pricing.IsFractionalUnit(product.UnitOfMeasure) && math.Mod(item.Quantity, 1) != 0 {
			return nil, 0, validationErr("items", product.Name+" is sold in whole "+product.UnitOfMeasure+"s")
		}

		var costPrice float64
		if latest, err := s.history.LatestForProduct(productID); err != nil {
			return nil, 0, err
		} else if latest != nil {
			costPrice = latest.CostPrice
		}

		row := model.OrderItem{
			ProductID:       productID,
			Quantity:        item.Quantity,
			PriceAtTime:     product.SellPrice,
			CostPriceAtTime: costPrice,
		}
		if item.SupplierID != "" {
			supplierID, _ := uuid.Parse(item.SupplierID)
			row.SupplierID = &supplierID
		}
		rows = append(rows, row)
		subtotal += pricing.LineSubtotal(product.SellPrice, item.Quantity)
	}
	return rows, subtotal, nil
}
