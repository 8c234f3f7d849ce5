package services

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/metrics"
	"gifts-backend/internal/models"
)

// billStore is the slice of the bill repository the orchestrator needs.
type billStore interface {
	GenerateBillNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, bill *models.Bill) error
	UpdateDocumentURL(ctx context.Context, billID int, url string) error
}

// purchaseRecorder updates customer lifetime stats after a sale.
type purchaseRecorder interface {
	RecordPurchase(ctx context.Context, customerID int, amount decimal.Decimal) error
}

// documentStore renders and uploads the invoice document.
type documentStore interface {
	GenerateAndStore(ctx context.Context, bill *models.Bill, format string) (string, error)
}

// CheckoutService finalizes a checkout session into a persisted bill. Once
// the bill row is committed the sale has happened; every later step degrades
// gracefully instead of rolling it back.
type CheckoutService struct {
	Sessions  *SessionManager
	Bills     billStore
	Customers purchaseRecorder
	Documents documentStore
}

func NewCheckoutService(sessions *SessionManager, bills billStore, customers purchaseRecorder, documents documentStore) *CheckoutService {
	return &CheckoutService{
		Sessions:  sessions,
		Bills:     bills,
		Customers: customers,
		Documents: documents,
	}
}

// Finalize validates the session, persists it as a bill, records the
// customer purchase, and generates the invoice document. Validation failures
// leave the session untouched. A document failure is reported as a warning on
// the response, not as an error.
func (s *CheckoutService) Finalize(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	session, err := s.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	calc := session.Calculations()
	if len(session.Items()) == 0 {
		return nil, billing.ErrEmptyBill
	}
	if calc.Total.LessThanOrEqual(decimal.Zero) {
		return nil, billing.ErrInvalidTotal
	}
	if calc.BalanceDue.GreaterThan(decimal.Zero) && !req.ConfirmPartial {
		return nil, billing.ErrUnconfirmedBalance
	}

	bill := session.Snapshot()
	bill.DueDate = req.DueDate
	if strings.TrimSpace(req.Notes) != "" {
		bill.Notes = req.Notes
	}

	billNumber, err := s.Bills.GenerateBillNumber(ctx)
	if err != nil {
		return nil, err
	}
	bill.BillNumber = billNumber

	if err := s.Bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	metrics.BillsFinalizedTotal.Inc()
	log.Printf("[Checkout] bill %s persisted, total %s, status %s",
		bill.BillNumber, bill.Calculations.Total.StringFixed(2), bill.PaymentStatus)

	// The sale is committed from here on. Failures below are reported, never
	// allowed to undo the bill.
	if bill.CustomerID != nil {
		if err := s.Customers.RecordPurchase(ctx, *bill.CustomerID, bill.Calculations.Total); err != nil {
			log.Printf("[Checkout] failed to record purchase for customer %d on %s: %v",
				*bill.CustomerID, bill.BillNumber, err)
		}
	}

	resp := &models.CheckoutResponse{Bill: bill}
	url, err := s.Documents.GenerateAndStore(ctx, bill, req.Format)
	if err != nil {
		log.Printf("[Checkout] invoice document for %s failed: %v", bill.BillNumber, err)
		resp.Warning = "invoice document could not be generated; it can be regenerated from the bill"
	} else {
		if err := s.Bills.UpdateDocumentURL(ctx, bill.ID, url); err != nil {
			log.Printf("[Checkout] failed to store document URL for %s: %v", bill.BillNumber, err)
			resp.Warning = "invoice document was generated but its reference could not be saved"
		} else {
			bill.DocumentURL = url
		}
	}

	session.Clear()
	s.Sessions.Discard(sessionID)

	return resp, nil
}
