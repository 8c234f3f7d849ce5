package billing

import (
	"sync"
	"time"

	"gifts-backend/internal/models"
	"gifts-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is the in-progress bill for one checkout. It owns the item ledger,
// discount ledger and declared payments, and derives totals on demand.
// One session belongs to one operator; it is constructed per checkout and
// discarded after finalize or clear, never shared as a process-wide singleton.
type Session struct {
	ID         string
	OperatorID *int

	mu        sync.Mutex
	items     []models.BillItem
	discounts []models.Discount
	payments  []models.PaymentDetails
	customer  *models.Customer
	notes     string
	createdAt time.Time
}

// NewSession creates an empty checkout session.
func NewSession(operatorID *int) *Session {
	return &Session{
		ID:         uuid.NewString(),
		OperatorID: operatorID,
		createdAt:  timeutil.Now(),
	}
}

// newBillItem derives the monetary fields for a line. Total is always
// subtotal + taxAmount, recomputed together whenever quantity changes.
func newBillItem(id string, productID int, name string, quantity int, unitPrice, taxRate decimal.Decimal, variant map[string]string, note string) models.BillItem {
	subtotal := LineSubtotal(quantity, unitPrice)
	tax := TaxAmount(subtotal, taxRate)
	return models.BillItem{
		ID:        id,
		ProductID: productID,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		TaxRate:   taxRate,
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
		Variant:   variant,
		Note:      note,
	}
}

// AddItem appends a new line item with derived subtotal/tax/total.
// The stock guard against live inventory happens in the catalog service
// before this is called.
func (s *Session) AddItem(productID int, name string, quantity int, unitPrice, taxRate decimal.Decimal, variant map[string]string, note string) (models.BillItem, error) {
	if quantity <= 0 {
		return models.BillItem{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return models.BillItem{}, ErrInvalidUnitPrice
	}

	item := newBillItem(uuid.NewString(), productID, name, quantity, unitPrice, taxRate, variant, note)

	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
	return item, nil
}

// RemoveItem removes a line item by id. Removing an unknown id is a no-op.
func (s *Session) RemoveItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity changes a line's quantity and recomputes its derived fields,
// leaving other lines untouched. A quantity of zero or less removes the line.
func (s *Session) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == itemID {
			s.items[i] = newBillItem(item.ID, item.ProductID, item.Name, quantity, item.UnitPrice, item.TaxRate, item.Variant, item.Note)
			return
		}
	}
}

// Items returns a copy of the current line items in order.
func (s *Session) Items() []models.BillItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BillItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddDiscount assigns a fresh identifier and appends the discount.
func (s *Session) AddDiscount(d models.Discount) models.Discount {
	d.ID = uuid.NewString()
	s.mu.Lock()
	s.discounts = append(s.discounts, d)
	s.mu.Unlock()
	return d
}

// RemoveDiscount removes a discount by id. Unknown ids are a no-op.
func (s *Session) RemoveDiscount(discountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.discounts {
		if d.ID == discountID {
			s.discounts = append(s.discounts[:i], s.discounts[i+1:]...)
			return
		}
	}
}

// Discounts returns a copy of the applied discounts.
func (s *Session) Discounts() []models.Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Discount, len(s.discounts))
	copy(out, s.discounts)
	return out
}

// aggregateDiscount sums all discounts against the original subtotal.
// Percentage discounts are computed independently (no compounding) and capped
// individually; the grand total is clamped to [0, subtotal]. Expired discounts
// and discounts whose minimum-order threshold the subtotal no longer meets
// contribute nothing.
func aggregateDiscount(discounts []models.Discount, subtotal decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range discounts {
		if d.ExpiresAt != nil && d.ExpiresAt.Before(timeutil.Now()) {
			continue
		}
		if d.MinOrder != nil && subtotal.LessThan(*d.MinOrder) {
			continue
		}
		switch d.Kind {
		case models.DiscountPercentage:
			amt := Round2(subtotal.Mul(d.Value).Div(hundred))
			if d.Cap != nil && amt.GreaterThan(*d.Cap) {
				amt = *d.Cap
			}
			total = total.Add(amt)
		default: // fixed, coupon, loyalty
			total = total.Add(d.Value)
		}
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	if total.GreaterThan(subtotal) {
		return subtotal
	}
	return total
}

func (s *Session) calculationsLocked() models.BillCalculations {
	subtotal := decimal.Zero
	totalTax := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(item.Subtotal)
		totalTax = totalTax.Add(item.TaxAmount)
	}
	// Per-line values are already rounded, so these only normalize scale.
	subtotal = Round2(subtotal)
	totalTax = Round2(totalTax)

	discount := aggregateDiscount(s.discounts, subtotal)
	total := Round2(subtotal.Add(totalTax).Sub(discount))

	paid := decimal.Zero
	for _, p := range s.payments {
		paid = paid.Add(p.Amount)
	}

	balance := total.Sub(paid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return models.BillCalculations{
		Subtotal:      subtotal,
		TotalTax:      totalTax,
		TotalDiscount: discount,
		Total:         total,
		BalanceDue:    balance,
	}
}

// Calculations recomputes the totals snapshot from the current items,
// discounts and payments. It is a pure derivation and is never cached.
func (s *Session) Calculations() models.BillCalculations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calculationsLocked()
}

// AddPayment validates and appends one payment declaration. The running paid
// total may never exceed the bill total at the moment of entry; a rejected
// payment leaves the session unchanged.
func (s *Session) AddPayment(method string, amount decimal.Decimal, reference string) (models.PaymentDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount = Round2(amount)
	if !amount.IsPositive() {
		return models.PaymentDetails{}, ErrInvalidAmount
	}

	calc := s.calculationsLocked()
	paid := calc.Total.Sub(calc.BalanceDue)
	if paid.Add(amount).GreaterThan(calc.Total) {
		return models.PaymentDetails{}, ErrOverPayment
	}

	p := models.PaymentDetails{
		ID:        uuid.NewString(),
		Method:    method,
		Amount:    amount,
		Reference: reference,
		PaidAt:    timeutil.Now(),
	}
	s.payments = append(s.payments, p)
	return p, nil
}

// RemovePayment removes a payment declaration, reversing the running paid
// total. The payment state may transition backward.
func (s *Session) RemovePayment(paymentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.payments {
		if p.ID == paymentID {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			return
		}
	}
}

// Payments returns a copy of the declared payments in order.
func (s *Session) Payments() []models.PaymentDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PaymentDetails, len(s.payments))
	copy(out, s.payments)
	return out
}

// PaidTotal sums the declared payments.
func (s *Session) PaidTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	paid := decimal.Zero
	for _, p := range s.payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// PaymentStatus derives paid/partial/pending from payments against the total.
func (s *Session) PaymentStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paymentStatus(s.calculationsLocked(), len(s.payments))
}

func paymentStatus(calc models.BillCalculations, paymentCount int) string {
	if paymentCount > 0 && calc.BalanceDue.IsZero() {
		return models.PaymentStatusPaid
	}
	paid := calc.Total.Sub(calc.BalanceDue)
	if paid.IsPositive() {
		return models.PaymentStatusPartial
	}
	return models.PaymentStatusPending
}

// AttachCustomer links a customer to the in-progress bill. The customer does
// not affect monetary math.
func (s *Session) AttachCustomer(c *models.Customer) {
	s.mu.Lock()
	s.customer = c
	s.mu.Unlock()
}

// Customer returns the attached customer, or nil for a walk-in sale.
func (s *Session) Customer() *models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// SetNotes attaches free-text notes carried onto the finalized bill.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
}

// Clear empties all ledgers, starting a fresh bill.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.discounts = nil
	s.payments = nil
	s.customer = nil
	s.notes = ""
}

// Snapshot freezes the session into an immutable Bill value. Items, discounts
// and payments are copied; nothing mutable crosses the finalization boundary.
func (s *Session) Snapshot() *models.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	calc := s.calculationsLocked()

	items := make([]models.BillItem, len(s.items))
	copy(items, s.items)
	for i := range items {
		if items[i].Variant != nil {
			v := make(map[string]string, len(items[i].Variant))
			for k, val := range items[i].Variant {
				v[k] = val
			}
			items[i].Variant = v
		}
	}

	discounts := make([]models.Discount, len(s.discounts))
	copy(discounts, s.discounts)
	payments := make([]models.PaymentDetails, len(s.payments))
	copy(payments, s.payments)

	bill := &models.Bill{
		OperatorID:    s.OperatorID,
		Items:         items,
		Discounts:     discounts,
		Calculations:  calc,
		Payments:      payments,
		PaymentStatus: paymentStatus(calc, len(payments)),
		BillDate:      timeutil.Now(),
		Notes:         s.notes,
	}

	if s.customer != nil {
		if s.customer.ID != 0 {
			id := s.customer.ID
			bill.CustomerID = &id
		}
		bill.CustomerName = s.customer.DisplayName()
		bill.CustomerPhone = s.customer.Phone
		bill.CustomerEmail = s.customer.Email
	}

	return bill
}
