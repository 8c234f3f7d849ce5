package invoice

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"gifts-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBusiness() BusinessInfo {
	return BusinessInfo{
		Name:         "Lotus Gifts & Crafts",
		AddressLine1: "12 MG Road",
		AddressLine2: "Jaipur, Rajasthan 302001",
		Phone:        "+91 98765 43210",
		Email:        "hello@lotusgifts.example",
		GSTIN:        "08ABCDE1234F1Z5",
		FooterNote:   "Goods once sold are exchangeable within 7 days with receipt.",
	}
}

func testBill(items int) *models.Bill {
	bill := &models.Bill{
		BillNumber:    "GB-000042",
		CustomerName:  "Asha Verma",
		CustomerPhone: "9876543210",
		PaymentStatus: models.PaymentStatusPartial,
		BillDate:      time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC),
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := 0; i < items; i++ {
		item := models.BillItem{
			ID:        fmt.Sprintf("item-%d", i),
			ProductID: i + 1,
			Name:      fmt.Sprintf("Scented Candle %d", i+1),
			Quantity:  2,
			UnitPrice: dec("500"),
			TaxRate:   dec("18"),
			Subtotal:  dec("1000"),
			TaxAmount: dec("180"),
			Total:     dec("1180"),
		}
		bill.Items = append(bill.Items, item)
		subtotal = subtotal.Add(item.Subtotal)
		tax = tax.Add(item.TaxAmount)
	}

	total := subtotal.Add(tax)
	bill.Payments = []models.PaymentDetails{
		{ID: "p1", Method: "cash", Amount: dec("1000"), PaidAt: bill.BillDate},
	}
	bill.Calculations = models.BillCalculations{
		Subtotal:   subtotal,
		TotalTax:   tax,
		Total:      total,
		BalanceDue: total.Sub(dec("1000")),
	}
	return bill
}

func TestPDFRendererProducesPDF(t *testing.T) {
	r := NewPDFRenderer(testBusiness())
	doc, err := r.Render(context.Background(), testBill(3))
	require.NoError(t, err)
	require.Equal(t, "application/pdf", doc.ContentType)
	require.Equal(t, "GB-000042.pdf", doc.Filename)
	require.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
	require.Greater(t, len(doc.Bytes), 1000)
}

func TestPDFRendererPaginatesLongBills(t *testing.T) {
	r := NewPDFRenderer(testBusiness())

	short, err := r.Render(context.Background(), testBill(2))
	require.NoError(t, err)
	long, err := r.Render(context.Background(), testBill(120))
	require.NoError(t, err)

	// A 120-line bill spills onto extra pages; the artifact must grow.
	require.Greater(t, len(long.Bytes), len(short.Bytes))
	require.Greater(t, bytes.Count(long.Bytes, []byte("/Page")), bytes.Count(short.Bytes, []byte("/Page")))
}

func TestPDFRendererWalkInCustomer(t *testing.T) {
	bill := testBill(1)
	bill.CustomerName = ""
	bill.CustomerPhone = ""

	r := NewPDFRenderer(testBusiness())
	doc, err := r.Render(context.Background(), bill)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
}
