// Package wizard models the three-step order form flow: pick a customer,
// pick products, review and submit. The UI shell drives it; the state
// machine owns step gating and the draft record.
package wizard

import (
	"strings"

	"faraalkhata/internal/pricing"
)

type Step int

const (
	StepCustomer Step = iota + 1
	StepProducts
	StepReview
)

const TotalSteps = 3

// Item is one product line of the draft.
type Item struct {
	ProductID  string  `json:"product_id"`
	Quantity   float64 `json:"quantity"`
	SupplierID string  `json:"supplier_id,omitempty"`
}

// Draft is the order under construction. Its fields map one-to-one onto the
// create/update payload of the order service.
type Draft struct {
	CustomerID        string  `json:"customer_id"`
	ReferralPartnerID string  `json:"referral_partner_id,omitempty"`
	NeedsDelivery     bool    `json:"needs_delivery"`
	DeliveryAddressID string  `json:"delivery_address_id,omitempty"`
	DeliveryFee       float64 `json:"delivery_fee"`
	DiscountAmount    float64 `json:"discount_amount"`
	DueDate           string  `json:"due_date"`
	Notes             string  `json:"notes,omitempty"`
	Items             []Item  `json:"items"`
}

type Wizard struct {
	step    Step
	draft   Draft
	editing bool
}

// New opens a fresh wizard at the customer step.
func New() *Wizard {
	return &Wizard{step: StepCustomer}
}

// NewForEdit opens the wizard pre-filled with an existing order's draft.
func NewForEdit(draft Draft) *Wizard {
	return &Wizard{step: StepCustomer, draft: draft, editing: true}
}

func (w *Wizard) Step() Step    { return w.step }
func (w *Wizard) Editing() bool { return w.editing }
func (w *Wizard) Draft() *Draft { return &w.draft }

// CanAdvance reports whether the current step's completeness predicate
// holds: a customer on step one, at least one line on step two, always on
// review.
func (w *Wizard) CanAdvance() bool {
	switch w.step {
	case StepCustomer:
		return strings.TrimSpace(w.draft.CustomerID) != ""
	case StepProducts:
		return len(w.draft.Items) > 0
	default:
		return true
	}
}

// Next moves forward one step if allowed, clamped at review.
func (w *Wizard) Next() bool {
	if !w.CanAdvance() || w.step >= StepReview {
		return false
	}
	w.step++
	return true
}

// Prev moves back one step; always allowed above step one.
func (w *Wizard) Prev() bool {
	if w.step <= StepCustomer {
		return false
	}
	w.step--
	return true
}

// GoTo jumps directly to a completed (or the current) step. Jumping ahead
// is rejected; forward movement must pass through Next's gating.
func (w *Wizard) GoTo(step Step) bool {
	if step < StepCustomer || step > w.step {
		return false
	}
	w.step = step
	return true
}

// CanSubmit reports whether the terminal submit action is available.
func (w *Wizard) CanSubmit() bool {
	return w.step == StepReview
}

// HasUnsavedData tells the shell whether closing needs a discard
// confirmation. Edits of an existing order never do.
func (w *Wizard) HasUnsavedData() bool {
	if w.editing {
		return false
	}
	return w.draft.CustomerID != "" || len(w.draft.Items) > 0
}

// Reset clears the draft and returns to the customer step, as happens after
// a successful submit or a confirmed discard.
func (w *Wizard) Reset() {
	w.draft = Draft{}
	w.step = StepCustomer
	w.editing = false
}

// AddProduct adds a line for the product, or bumps an existing line by the
// unit's step.
func (w *Wizard) AddProduct(productID, unit string) {
	for i := range w.draft.Items {
		if w.draft.Items[i].ProductID == productID {
			w.draft.Items[i].Quantity += pricing.QuantityStep(unit)
			return
		}
	}
	w.draft.Items = append(w.draft.Items, Item{ProductID: productID, Quantity: 1})
}

// RemoveProduct drops the product's line entirely.
func (w *Wizard) RemoveProduct(productID string) {
	items := w.draft.Items[:0]
	for _, item := range w.draft.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	w.draft.Items = items
}

// SetQuantity replaces a line's quantity. A quantity at or below zero
// removes the line rather than persisting a non-positive value.
func (w *Wizard) SetQuantity(productID string, quantity float64) {
	if quantity <= 0 {
		w.RemoveProduct(productID)
		return
	}
	for i := range w.draft.Items {
		if w.draft.Items[i].ProductID == productID {
			w.draft.Items[i].Quantity = quantity
			return
		}
	}
}

// IncrementQuantity bumps a line by the unit's step.
func (w *Wizard) IncrementQuantity(productID, unit string) {
	for i := range w.draft.Items {
		if w.draft.Items[i].ProductID == productID {
			w.draft.Items[i].Quantity += pricing.QuantityStep(unit)
			return
		}
	}
}

// DecrementQuantity lowers a line by the unit's step, clamped at the unit
// minimum. Removal happens through SetQuantity or RemoveProduct, not here.
func (w *Wizard) DecrementQuantity(productID, unit string) {
	step := pricing.QuantityStep(unit)
	min := pricing.MinQuantity(unit)
	for i := range w.draft.Items {
		if w.draft.Items[i].ProductID == productID {
			next := w.draft.Items[i].Quantity - step
			if next < min {
				next = min
			}
			w.draft.Items[i].Quantity = next
			return
		}
	}
}

// Lines converts the draft items for the pricing calculator.
func (w *Wizard) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(w.draft.Items))
	for i, item := range w.draft.Items {
		lines[i] = pricing.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}
