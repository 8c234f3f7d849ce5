package billing

import "errors"

// Ledger and reconciliation errors are local and recoverable: the operator
// corrects the input and retries. A rejected operation leaves session state
// unchanged.
var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrInvalidUnitPrice   = errors.New("unit price cannot be negative")
	ErrInsufficientStock  = errors.New("insufficient stock for requested quantity")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrOverPayment        = errors.New("payment would exceed the bill total")
	ErrEmptyBill          = errors.New("bill has no items")
	ErrInvalidTotal       = errors.New("bill total must be positive")
	ErrUnconfirmedBalance = errors.New("outstanding balance requires confirmation")

	// ErrDocumentGeneration marks invoice rendering or upload failures. It is
	// never fatal to a finalized bill; the document can be regenerated.
	ErrDocumentGeneration = errors.New("invoice document generation failed")
)
