package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/models"
	"gifts-backend/internal/repositories"
	"gifts-backend/internal/timeutil"
)

var ErrBillNotFound = errors.New("bill not found")

// BillService serves finalized bills: lookups, settlement of outstanding
// balances, and invoice document regeneration.
type BillService struct {
	Repo      *repositories.BillRepository
	Documents *DocumentService
}

func NewBillService(repo *repositories.BillRepository, documents *DocumentService) *BillService {
	return &BillService{Repo: repo, Documents: documents}
}

func (s *BillService) GetBill(ctx context.Context, id int) (*models.Bill, error) {
	return s.Repo.Get(ctx, id)
}

func (s *BillService) GetBillByNumber(ctx context.Context, billNumber string) (*models.Bill, error) {
	return s.Repo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(billNumber)))
}

// ListBills returns recent bills, optionally filtered by payment status.
func (s *BillService) ListBills(ctx context.Context, status string) ([]*models.Bill, error) {
	switch status {
	case "", models.PaymentStatusPaid, models.PaymentStatusPartial, models.PaymentStatusPending:
	default:
		return nil, errors.New("invalid payment status filter")
	}
	return s.Repo.List(ctx, status)
}

func (s *BillService) ListCustomerBills(ctx context.Context, customerID int) ([]*models.Bill, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

// RecordPayment settles part or all of the balance on an already finalized
// bill. The frozen total is never recomputed; only payment state moves.
func (s *BillService) RecordPayment(ctx context.Context, billID int, req *models.AddPaymentRequest) (*models.Bill, error) {
	amount := billing.Round2(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, billing.ErrInvalidAmount
	}
	if !validPaymentMethod(req.Method) {
		return nil, errors.New("unsupported payment method")
	}

	bill, err := s.Repo.Get(ctx, billID)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	for _, p := range bill.Payments {
		paid = paid.Add(p.Amount)
	}
	if paid.Add(amount).GreaterThan(bill.Calculations.Total) {
		return nil, billing.ErrOverPayment
	}

	payment := models.PaymentDetails{
		ID:        uuid.New().String(),
		Method:    req.Method,
		Amount:    amount,
		Reference: req.Reference,
		PaidAt:    timeutil.Now(),
	}

	newPaid := paid.Add(amount)
	newStatus := models.PaymentStatusPartial
	if newPaid.GreaterThanOrEqual(bill.Calculations.Total) {
		newStatus = models.PaymentStatusPaid
	}

	if err := s.Repo.AddPayment(ctx, billID, payment, newStatus); err != nil {
		return nil, err
	}

	log.Printf("[Bills] payment of %s recorded on %s, status %s", amount.StringFixed(2), bill.BillNumber, newStatus)
	return s.Repo.Get(ctx, billID)
}

// RegenerateDocument re-renders the invoice for a finalized bill and replaces
// the stored document reference. Used when the original generation failed at
// checkout or a different format is wanted.
func (s *BillService) RegenerateDocument(ctx context.Context, billID int, format string) (*models.Bill, error) {
	bill, err := s.Repo.Get(ctx, billID)
	if err != nil {
		return nil, err
	}

	url, err := s.Documents.GenerateAndStore(ctx, bill, format)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateDocumentURL(ctx, billID, url); err != nil {
		return nil, err
	}
	bill.DocumentURL = url
	return bill, nil
}

func validPaymentMethod(method string) bool {
	for _, m := range models.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
