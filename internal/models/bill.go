package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values for a bill
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusPending = "pending"
)

// Discount kinds
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountCoupon     = "coupon"
	DiscountLoyalty    = "loyalty"
)

// Payment methods accepted at the counter
var PaymentMethods = []string{"cash", "card", "upi", "bank", "cheque", "wallet"}

// BillItem is one line of a sale. Subtotal, TaxAmount and Total are derived
// from Quantity/UnitPrice/TaxRate and are never mutated independently.
type BillItem struct {
	ID        string            `json:"id"`
	ProductID int               `json:"product_id"`
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	TaxAmount decimal.Decimal   `json:"tax_amount"`
	Total     decimal.Decimal   `json:"total"`
	Variant   map[string]string `json:"variant,omitempty"`
	Note      string            `json:"note,omitempty"`
}

// Discount is a declared reduction on the bill being built.
type Discount struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"` // percentage, fixed, coupon, loyalty
	Value       decimal.Decimal `json:"value"`
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description,omitempty"`
	MinOrder    *decimal.Decimal `json:"min_order,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Cap         *decimal.Decimal `json:"cap,omitempty"` // percentage kind only
}

// PaymentDetails is one discrete payment declaration. Immutable once added
// except for removal.
type PaymentDetails struct {
	ID        string          `json:"id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

// BillCalculations is a derived snapshot, always recomputed from the current
// items, discounts and paid amount. Never stored on its own.
type BillCalculations struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	Total         decimal.Decimal `json:"total"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// Bill is a finalized invoice. Items, discounts and calculations are frozen
// copies taken at finalization; only payment fields and the document reference
// may change afterwards.
type Bill struct {
	ID            int              `json:"id"`
	BillNumber    string           `json:"bill_number"`
	CustomerID    *int             `json:"customer_id"`
	CustomerName  string           `json:"customer_name,omitempty"`
	CustomerPhone string           `json:"customer_phone,omitempty"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	OperatorID    *int             `json:"operator_id"`
	Items         []BillItem       `json:"items"`
	Discounts     []Discount       `json:"discounts,omitempty"`
	Calculations  BillCalculations `json:"calculations"`
	Payments      []PaymentDetails `json:"payments"`
	PaymentStatus string           `json:"payment_status"`
	BillDate      time.Time        `json:"bill_date"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	DocumentURL   string           `json:"document_url,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// AddBillItemRequest represents the request body for adding an item to a
// checkout session
type AddBillItemRequest struct {
	ProductID int               `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	Note      string            `json:"note,omitempty"`
}

// UpdateQuantityRequest represents the request body for changing an item quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// AddDiscountRequest represents the request body for applying a discount
type AddDiscountRequest struct {
	Kind        string           `json:"kind"`
	Value       decimal.Decimal  `json:"value"`
	Code        string           `json:"code,omitempty"`
	Description string           `json:"description,omitempty"`
	MinOrder    *decimal.Decimal `json:"min_order,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	Cap         *decimal.Decimal `json:"cap,omitempty"`
}

// AddPaymentRequest represents the request body for declaring a payment
type AddPaymentRequest struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// CheckoutRequest represents the request body for finalizing a sale
type CheckoutRequest struct {
	ConfirmPartial bool       `json:"confirm_partial"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Format         string     `json:"format,omitempty"` // invoice document format, defaults to pdf
}

// CheckoutResponse is returned after a successful finalization. Warning is set
// when document generation failed but the sale itself was recorded.
type CheckoutResponse struct {
	Bill    *Bill  `json:"bill"`
	Warning string `json:"warning,omitempty"`
}
