package billing

import (
	"testing"
	"time"

	"gifts-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession(nil)
}

func addGiftBox(t *testing.T, s *Session) models.BillItem {
	t.Helper()
	item, err := s.AddItem(1, "Gift Box", 2, dec("500"), dec("18"), nil, "")
	require.NoError(t, err)
	return item
}

func TestAddItemDerivesMonetaryFields(t *testing.T) {
	s := newTestSession()
	item := addGiftBox(t, s)

	// qty 2, unit price 500, tax 18%
	require.Equal(t, "1000", item.Subtotal.String())
	require.Equal(t, "180", item.TaxAmount.String())
	require.Equal(t, "1180", item.Total.String())
	require.True(t, item.Total.Equal(item.Subtotal.Add(item.TaxAmount)))
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	s := newTestSession()
	_, err := s.AddItem(1, "Gift Box", 0, dec("500"), dec("18"), nil, "")
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = s.AddItem(1, "Gift Box", -3, dec("500"), dec("18"), nil, "")
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Empty(t, s.Items())
}

func TestAddItemRejectsNegativeUnitPrice(t *testing.T) {
	s := newTestSession()
	_, err := s.AddItem(1, "Gift Box", 1, dec("-0.01"), dec("18"), nil, "")
	require.ErrorIs(t, err, ErrInvalidUnitPrice)
	require.Empty(t, s.Items())

	// Zero-priced lines are allowed, a freebie is still rung up.
	item, err := s.AddItem(1, "Sample Sachet", 1, dec("0"), dec("18"), nil, "")
	require.NoError(t, err)
	require.Equal(t, "0", item.Total.String())
}

func TestUpdateQuantityRecomputesOnlyThatLine(t *testing.T) {
	s := newTestSession()
	first := addGiftBox(t, s)
	second, err := s.AddItem(2, "Greeting Card", 1, dec("49.50"), dec("12"), nil, "")
	require.NoError(t, err)

	s.UpdateQuantity(first.ID, 3)

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, 3, items[0].Quantity)
	require.Equal(t, "1500", items[0].Subtotal.String())
	require.Equal(t, "270", items[0].TaxAmount.String())
	require.Equal(t, "1770", items[0].Total.String())
	require.Equal(t, second, items[1])
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	s := newTestSession()
	item := addGiftBox(t, s)
	s.UpdateQuantity(item.ID, 0)
	require.Empty(t, s.Items())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	s := newTestSession()
	item := addGiftBox(t, s)
	s.RemoveItem(item.ID)
	s.RemoveItem(item.ID)
	s.RemoveItem("no-such-item")
	require.Empty(t, s.Items())
}

func TestRemoveThenReAddReproducesItem(t *testing.T) {
	s := newTestSession()
	item := addGiftBox(t, s)
	s.RemoveItem(item.ID)

	again, err := s.AddItem(1, "Gift Box", 2, dec("500"), dec("18"), nil, "")
	require.NoError(t, err)

	// Identical modulo identifier.
	item.ID, again.ID = "", ""
	require.Equal(t, item, again)
}

func TestCalculationsWithCappedPercentageDiscount(t *testing.T) {
	// Two items of {qty 2, price 500, tax 18} plus a 10% discount capped at
	// 150: discount = min(200, 150) = 150, total = 2000 + 360 - 150 = 2210.
	s := newTestSession()
	addGiftBox(t, s)
	addGiftBox(t, s)
	cap := dec("150")
	s.AddDiscount(models.Discount{Kind: models.DiscountPercentage, Value: dec("10"), Cap: &cap})

	calc := s.Calculations()
	require.Equal(t, "2000", calc.Subtotal.String())
	require.Equal(t, "360", calc.TotalTax.String())
	require.Equal(t, "150", calc.TotalDiscount.String())
	require.Equal(t, "2210", calc.Total.String())
	require.Equal(t, "2210", calc.BalanceDue.String())
}

func TestDiscountAggregateClampedToSubtotal(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s) // subtotal 1000

	s.AddDiscount(models.Discount{Kind: models.DiscountFixed, Value: dec("800")})
	s.AddDiscount(models.Discount{Kind: models.DiscountCoupon, Value: dec("500"), Code: "WELCOME"})
	s.AddDiscount(models.Discount{Kind: models.DiscountPercentage, Value: dec("50")})

	calc := s.Calculations()
	require.Equal(t, "1000", calc.TotalDiscount.String())
	// total = subtotal + tax - clamped discount = 1000 + 180 - 1000
	require.Equal(t, "180", calc.Total.String())
}

func TestDiscountsAreAdditiveNotCompounded(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s) // subtotal 1000

	s.AddDiscount(models.Discount{Kind: models.DiscountPercentage, Value: dec("10")})
	s.AddDiscount(models.Discount{Kind: models.DiscountPercentage, Value: dec("10")})

	// Each 10% is taken from the original subtotal: 100 + 100, not 100 + 90.
	require.Equal(t, "200", s.Calculations().TotalDiscount.String())
}

func TestExpiredAndBelowThresholdDiscountsContributeNothing(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s) // subtotal 1000

	past := time.Now().Add(-time.Hour)
	s.AddDiscount(models.Discount{Kind: models.DiscountFixed, Value: dec("100"), ExpiresAt: &past})
	min := dec("5000")
	s.AddDiscount(models.Discount{Kind: models.DiscountFixed, Value: dec("100"), MinOrder: &min})

	require.Equal(t, "0", s.Calculations().TotalDiscount.String())
}

func TestRemoveDiscountRestoresTotal(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s)
	d := s.AddDiscount(models.Discount{Kind: models.DiscountFixed, Value: dec("100")})
	require.Equal(t, "1080", s.Calculations().Total.String())
	s.RemoveDiscount(d.ID)
	require.Equal(t, "1180", s.Calculations().Total.String())
}

func TestSplitPaymentsReachPaidStatus(t *testing.T) {
	// Bill total 2210.
	s := newTestSession()
	addGiftBox(t, s)
	addGiftBox(t, s)
	cap := dec("150")
	s.AddDiscount(models.Discount{Kind: models.DiscountPercentage, Value: dec("10"), Cap: &cap})

	require.Equal(t, models.PaymentStatusPending, s.PaymentStatus())

	_, err := s.AddPayment("cash", dec("1000"), "")
	require.NoError(t, err)
	_, err = s.AddPayment("upi", dec("1000"), "UPI-12345")
	require.NoError(t, err)

	calc := s.Calculations()
	require.Equal(t, "210", calc.BalanceDue.String())
	require.Equal(t, models.PaymentStatusPartial, s.PaymentStatus())

	_, err = s.AddPayment("cash", dec("210"), "")
	require.NoError(t, err)
	require.Equal(t, "0", s.Calculations().BalanceDue.String())
	require.Equal(t, models.PaymentStatusPaid, s.PaymentStatus())

	// Any further positive payment is an overpayment.
	_, err = s.AddPayment("cash", dec("0.01"), "")
	require.ErrorIs(t, err, ErrOverPayment)
	require.Len(t, s.Payments(), 3)
}

func TestAddPaymentRejectsInvalidAmount(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s)

	_, err := s.AddPayment("cash", dec("0"), "")
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.AddPayment("cash", dec("-50"), "")
	require.ErrorIs(t, err, ErrInvalidAmount)
	require.Empty(t, s.Payments())
}

func TestAddPaymentNeverExceedsTotal(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s) // total 1180

	_, err := s.AddPayment("card", dec("1180.01"), "")
	require.ErrorIs(t, err, ErrOverPayment)

	// Rejection leaves state untouched; the corrected amount succeeds.
	require.Equal(t, "1180", s.Calculations().BalanceDue.String())
	_, err = s.AddPayment("card", dec("1180"), "TXN-1")
	require.NoError(t, err)
}

func TestRemovePaymentRestoresBalanceExactly(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s) // total 1180

	p, err := s.AddPayment("cash", dec("500"), "")
	require.NoError(t, err)
	require.Equal(t, "680", s.Calculations().BalanceDue.String())

	s.RemovePayment(p.ID)
	require.Equal(t, "1180", s.Calculations().BalanceDue.String())
	require.Equal(t, models.PaymentStatusPending, s.PaymentStatus())
}

func TestSnapshotFreezesState(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s)
	s.AttachCustomer(&models.Customer{ID: 7, FirstName: "Asha", LastName: "Verma", Phone: "9876543210"})
	_, err := s.AddPayment("cash", dec("1180"), "")
	require.NoError(t, err)
	s.SetNotes("birthday wrap")

	bill := s.Snapshot()
	require.Equal(t, "Asha Verma", bill.CustomerName)
	require.Equal(t, 7, *bill.CustomerID)
	require.Equal(t, models.PaymentStatusPaid, bill.PaymentStatus)
	require.Equal(t, "1180", bill.Calculations.Total.String())
	require.Equal(t, "birthday wrap", bill.Notes)

	// Later session mutations do not leak into the snapshot.
	s.Clear()
	require.Len(t, bill.Items, 1)
	require.Len(t, bill.Payments, 1)
}

func TestClearEmptiesEverything(t *testing.T) {
	s := newTestSession()
	addGiftBox(t, s)
	s.AddDiscount(models.Discount{Kind: models.DiscountFixed, Value: dec("10")})
	_, err := s.AddPayment("cash", dec("100"), "")
	require.NoError(t, err)

	s.Clear()
	require.Empty(t, s.Items())
	require.Empty(t, s.Discounts())
	require.Empty(t, s.Payments())
	require.Nil(t, s.Customer())
	require.Equal(t, "0", s.Calculations().Total.String())
}
