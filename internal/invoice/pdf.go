package invoice

import (
	"bytes"
	"context"
	"fmt"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/models"
	"gifts-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDFRenderer composes the invoice directly with text and vector primitives.
// It paginates explicitly: when the y-cursor passes the bottom margin a new
// page starts and the item table header is redrawn.
type PDFRenderer struct {
	Business BusinessInfo
}

func NewPDFRenderer(business BusinessInfo) *PDFRenderer {
	return &PDFRenderer{Business: business}
}

const pdfBottomY = 270.0

func (r *PDFRenderer) Render(_ context.Context, bill *models.Bill) (*Document, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	r.drawHeader(pdf, bill)
	r.drawCustomerBlock(pdf, bill)
	r.drawItemTable(pdf, bill)
	r.drawSummary(pdf, bill)
	r.drawPayments(pdf, bill)
	r.drawFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}

	return &Document{
		Bytes:       buf.Bytes(),
		ContentType: "application/pdf",
		Filename:    bill.BillNumber + ".pdf",
	}, nil
}

func (r *PDFRenderer) drawHeader(pdf *gofpdf.Fpdf, bill *models.Bill) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, r.Business.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	if r.Business.AddressLine1 != "" {
		pdf.CellFormat(190, 5, r.Business.AddressLine1, "", 1, "C", false, 0, "")
	}
	if r.Business.AddressLine2 != "" {
		pdf.CellFormat(190, 5, r.Business.AddressLine2, "", 1, "C", false, 0, "")
	}
	contact := r.Business.Phone
	if r.Business.Email != "" {
		if contact != "" {
			contact += "  |  "
		}
		contact += r.Business.Email
	}
	if contact != "" {
		pdf.CellFormat(190, 5, contact, "", 1, "C", false, 0, "")
	}
	if r.Business.GSTIN != "" {
		pdf.CellFormat(190, 5, "GSTIN: "+r.Business.GSTIN, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, "TAX INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Invoice No: %s", bill.BillNumber), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", timeutil.FormatIST(bill.BillDate, timeutil.DisplayLayout)), "", 1, "R", false, 0, "")
	if bill.DueDate != nil {
		pdf.CellFormat(190, 6, fmt.Sprintf("Due Date: %s", timeutil.FormatIST(*bill.DueDate, timeutil.DateLayout)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
}

func (r *PDFRenderer) drawCustomerBlock(pdf *gofpdf.Fpdf, bill *models.Bill) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 7, "Billed To", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if bill.CustomerName == "" {
		pdf.CellFormat(190, 6, "Walk-in Customer", "LRB", 1, "L", false, 0, "")
		pdf.Ln(3)
		return
	}

	pdf.CellFormat(95, 6, bill.CustomerName, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, bill.CustomerPhone, "RB", 1, "L", false, 0, "")
	if bill.CustomerEmail != "" {
		pdf.CellFormat(190, 6, bill.CustomerEmail, "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *PDFRenderer) drawItemTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 7, "Tax", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 10)
}

func (r *PDFRenderer) drawItemTable(pdf *gofpdf.Fpdf, bill *models.Bill) {
	r.drawItemTableHeader(pdf)

	for i, item := range bill.Items {
		if pdf.GetY() > pdfBottomY {
			pdf.AddPage()
			r.drawItemTableHeader(pdf)
		}

		name := item.Name
		if len(name) > 38 {
			name = name[:35] + "..."
		}
		if item.Note != "" {
			name += " *"
		}

		pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 6, billing.FormatINR(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, billing.FormatINR(item.TaxAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, billing.FormatINR(item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *PDFRenderer) summaryRow(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(120, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, value, "1", 1, "R", false, 0, "")
}

func (r *PDFRenderer) drawSummary(pdf *gofpdf.Fpdf, bill *models.Bill) {
	if pdf.GetY() > pdfBottomY-40 {
		pdf.AddPage()
	}

	calc := bill.Calculations
	r.summaryRow(pdf, "Subtotal", billing.FormatINR(calc.Subtotal), false)
	r.summaryRow(pdf, "Tax", billing.FormatINR(calc.TotalTax), false)
	if calc.TotalDiscount.IsPositive() {
		r.summaryRow(pdf, "Discount", "- "+billing.FormatINR(calc.TotalDiscount), false)
	}
	r.summaryRow(pdf, "Total", billing.FormatINR(calc.Total), true)

	paid := calc.Total.Sub(calc.BalanceDue)
	r.summaryRow(pdf, "Amount Paid", billing.FormatINR(paid), false)
	if calc.BalanceDue.IsPositive() {
		r.summaryRow(pdf, "Balance Due", billing.FormatINR(calc.BalanceDue), true)
	}
	pdf.Ln(3)
}

func (r *PDFRenderer) drawPayments(pdf *gofpdf.Fpdf, bill *models.Bill) {
	if len(bill.Payments) == 0 {
		return
	}
	if pdf.GetY() > pdfBottomY-20 {
		pdf.AddPage()
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 7, "Payments", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, p := range bill.Payments {
		if pdf.GetY() > pdfBottomY {
			pdf.AddPage()
		}
		pdf.CellFormat(40, 6, p.Method, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, timeutil.FormatIST(p.PaidAt, timeutil.DisplayLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, p.Reference, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, billing.FormatINR(p.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) drawFooter(pdf *gofpdf.Fpdf) {
	if pdf.GetY() > pdfBottomY-12 {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(190, 6, "Thank you for shopping with us!", "", 1, "C", false, 0, "")
	if r.Business.FooterNote != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(190, 5, r.Business.FooterNote, "", 1, "C", false, 0, "")
	}
}
