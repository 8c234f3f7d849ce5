package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/models"
)

type stubBillStore struct {
	created     []*models.Bill
	nextNumber  int
	createErr   error
	docURLCalls int
	docURLErr   error
}

func (s *stubBillStore) GenerateBillNumber(ctx context.Context) (string, error) {
	s.nextNumber++
	return fmt.Sprintf("GB-%06d", s.nextNumber), nil
}

func (s *stubBillStore) Create(ctx context.Context, bill *models.Bill) error {
	if s.createErr != nil {
		return s.createErr
	}
	bill.ID = len(s.created) + 1
	s.created = append(s.created, bill)
	return nil
}

func (s *stubBillStore) UpdateDocumentURL(ctx context.Context, billID int, url string) error {
	s.docURLCalls++
	return s.docURLErr
}

type stubRecorder struct {
	calls   int
	lastID  int
	lastAmt decimal.Decimal
	err     error
}

func (s *stubRecorder) RecordPurchase(ctx context.Context, customerID int, amount decimal.Decimal) error {
	s.calls++
	s.lastID = customerID
	s.lastAmt = amount
	return s.err
}

type stubDocs struct {
	calls int
	url   string
	err   error
}

func (s *stubDocs) GenerateAndStore(ctx context.Context, bill *models.Bill, format string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newCheckoutFixture() (*CheckoutService, *SessionManager, *stubBillStore, *stubRecorder, *stubDocs) {
	sessions := NewSessionManager()
	bills := &stubBillStore{}
	recorder := &stubRecorder{}
	docs := &stubDocs{url: "https://cdn.example.com/invoices/GB-000001.pdf"}
	return NewCheckoutService(sessions, bills, recorder, docs), sessions, bills, recorder, docs
}

func loadSession(t *testing.T, session *billing.Session) {
	t.Helper()
	_, err := session.AddItem(7, "Gift Box", 2, decimal.NewFromInt(500), decimal.NewFromInt(18), nil, "")
	require.NoError(t, err)
}

func payInFull(t *testing.T, session *billing.Session) {
	t.Helper()
	_, err := session.AddPayment("cash", session.Calculations().Total, "")
	require.NoError(t, err)
}

func TestFinalizeEmptySession(t *testing.T) {
	svc, sessions, bills, _, docs := newCheckoutFixture()
	session := sessions.Create(nil)

	_, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	assert.ErrorIs(t, err, billing.ErrEmptyBill)
	assert.Empty(t, bills.created)
	assert.Zero(t, docs.calls)

	// The session survives a failed validation.
	_, err = sessions.Get(session.ID)
	assert.NoError(t, err)
}

func TestFinalizeUnconfirmedBalance(t *testing.T) {
	svc, sessions, bills, _, _ := newCheckoutFixture()
	session := sessions.Create(nil)
	loadSession(t, session)

	_, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	assert.ErrorIs(t, err, billing.ErrUnconfirmedBalance)
	assert.Empty(t, bills.created)
}

func TestFinalizePaidInFull(t *testing.T) {
	svc, sessions, bills, recorder, docs := newCheckoutFixture()
	operatorID := 3
	session := sessions.Create(&operatorID)
	loadSession(t, session)
	session.AttachCustomer(&models.Customer{ID: 42, Phone: "9876543210", FirstName: "Asha", LastName: "Verma", TotalPurchases: 4})
	payInFull(t, session)

	resp, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, "GB-000001", resp.Bill.BillNumber)
	assert.Equal(t, models.PaymentStatusPaid, resp.Bill.PaymentStatus)
	assert.Equal(t, "1180", resp.Bill.Calculations.Total.String())
	assert.Empty(t, resp.Warning)
	assert.Equal(t, docs.url, resp.Bill.DocumentURL)

	require.Len(t, bills.created, 1)
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, 42, recorder.lastID)
	assert.Equal(t, "1180", recorder.lastAmt.String())
	assert.Equal(t, 1, docs.calls)
	assert.Equal(t, 1, bills.docURLCalls)

	// The session is gone after a successful checkout.
	_, err = sessions.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFinalizePartialWithConfirmation(t *testing.T) {
	svc, sessions, bills, _, _ := newCheckoutFixture()
	session := sessions.Create(nil)
	loadSession(t, session)
	_, err := session.AddPayment("upi", decimal.NewFromInt(1000), "txn-1")
	require.NoError(t, err)

	resp, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{ConfirmPartial: true})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPartial, resp.Bill.PaymentStatus)
	assert.Equal(t, "180", resp.Bill.Calculations.BalanceDue.String())
	require.Len(t, bills.created, 1)
}

func TestFinalizeWalkInSkipsPurchaseRecording(t *testing.T) {
	svc, sessions, _, recorder, _ := newCheckoutFixture()
	session := sessions.Create(nil)
	loadSession(t, session)
	payInFull(t, session)

	resp, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	require.NoError(t, err)

	assert.Nil(t, resp.Bill.CustomerID)
	assert.Zero(t, recorder.calls)
}

func TestFinalizeDocumentFailureIsNonFatal(t *testing.T) {
	svc, sessions, bills, _, docs := newCheckoutFixture()
	docs.err = errors.New("converter unavailable")
	session := sessions.Create(nil)
	loadSession(t, session)
	payInFull(t, session)

	resp, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Warning)
	assert.Empty(t, resp.Bill.DocumentURL)
	require.Len(t, bills.created, 1)
	assert.Zero(t, bills.docURLCalls)

	_, err = sessions.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFinalizeRecordPurchaseFailureIsNonFatal(t *testing.T) {
	svc, sessions, bills, recorder, _ := newCheckoutFixture()
	recorder.err = errors.New("customers table locked")
	session := sessions.Create(nil)
	loadSession(t, session)
	session.AttachCustomer(&models.Customer{ID: 9, Phone: "9000000000", FirstName: "Ravi"})
	payInFull(t, session)

	resp, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, recorder.calls)
	assert.Empty(t, resp.Warning)
	require.Len(t, bills.created, 1)
}

func TestFinalizePersistenceFailureKeepsSession(t *testing.T) {
	svc, sessions, bills, _, docs := newCheckoutFixture()
	bills.createErr = errors.New("connection reset")
	session := sessions.Create(nil)
	loadSession(t, session)
	payInFull(t, session)

	_, err := svc.Finalize(context.Background(), session.ID, &models.CheckoutRequest{})
	require.Error(t, err)
	assert.Zero(t, docs.calls)

	// The operator can retry: the session and its contents are untouched.
	kept, err := sessions.Get(session.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Items(), 1)
}
