package invoice

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/models"
	"gifts-backend/internal/timeutil"
)

//go:embed templates/invoice.html
var printTemplateHTML string

// PrintRenderer renders a styled HTML invoice and converts it through a
// Chromium-based HTML-to-PDF service (Gotenberg API). The page height scales
// with content length instead of forcing a fixed page count, with an A4
// minimum.
type PrintRenderer struct {
	Business BusinessInfo
	Endpoint string
	Client   *http.Client

	tpl *template.Template
}

func NewPrintRenderer(business BusinessInfo, endpoint string, client *http.Client) (*PrintRenderer, error) {
	tpl, err := template.New("invoice").Parse(printTemplateHTML)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &PrintRenderer{
		Business: business,
		Endpoint: endpoint,
		Client:   client,
		tpl:      tpl,
	}, nil
}

type printLine struct {
	Index     int
	Name      string
	Note      string
	Quantity  int
	UnitPrice string
	Tax       string
	Total     string
}

type printPayment struct {
	Method    string
	PaidAt    string
	Reference string
	Amount    string
}

type printPayload struct {
	Business      BusinessInfo
	BillNumber    string
	BillDate      string
	DueDate       string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	WalkIn        bool
	Lines         []printLine
	Subtotal      string
	TotalTax      string
	TotalDiscount string
	HasDiscount   bool
	Total         string
	AmountPaid    string
	BalanceDue    string
	HasBalance    bool
	Payments      []printPayment
	Notes         string
}

func (r *PrintRenderer) buildPayload(bill *models.Bill) printPayload {
	calc := bill.Calculations
	paid := calc.Total.Sub(calc.BalanceDue)

	p := printPayload{
		Business:      r.Business,
		BillNumber:    bill.BillNumber,
		BillDate:      timeutil.FormatIST(bill.BillDate, timeutil.DisplayLayout),
		CustomerName:  bill.CustomerName,
		CustomerPhone: bill.CustomerPhone,
		CustomerEmail: bill.CustomerEmail,
		WalkIn:        bill.CustomerName == "",
		Subtotal:      billing.FormatINR(calc.Subtotal),
		TotalTax:      billing.FormatINR(calc.TotalTax),
		TotalDiscount: billing.FormatINR(calc.TotalDiscount),
		HasDiscount:   calc.TotalDiscount.IsPositive(),
		Total:         billing.FormatINR(calc.Total),
		AmountPaid:    billing.FormatINR(paid),
		BalanceDue:    billing.FormatINR(calc.BalanceDue),
		HasBalance:    calc.BalanceDue.IsPositive(),
		Notes:         bill.Notes,
	}
	if bill.DueDate != nil {
		p.DueDate = timeutil.FormatIST(*bill.DueDate, timeutil.DateLayout)
	}

	for i, item := range bill.Items {
		p.Lines = append(p.Lines, printLine{
			Index:     i + 1,
			Name:      item.Name,
			Note:      item.Note,
			Quantity:  item.Quantity,
			UnitPrice: billing.FormatINR(item.UnitPrice),
			Tax:       billing.FormatINR(item.TaxAmount),
			Total:     billing.FormatINR(item.Total),
		})
	}
	for _, pay := range bill.Payments {
		p.Payments = append(p.Payments, printPayment{
			Method:    pay.Method,
			PaidAt:    timeutil.FormatIST(pay.PaidAt, timeutil.DisplayLayout),
			Reference: pay.Reference,
			Amount:    billing.FormatINR(pay.Amount),
		})
	}
	return p
}

// paperHeightInches grows the page with content so long bills come out as one
// tall receipt-style sheet. A4 height is the minimum.
func paperHeightInches(bill *models.Bill) float64 {
	const a4 = 11.7
	h := 6.0 + 0.22*float64(len(bill.Items)) + 0.22*float64(len(bill.Payments))
	if h < a4 {
		return a4
	}
	return h
}

func (r *PrintRenderer) Render(ctx context.Context, bill *models.Bill) (*Document, error) {
	endpoint := strings.TrimRight(r.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("print renderer endpoint required")
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	var html bytes.Buffer
	if err := r.tpl.Execute(&html, r.buildPayload(bill)); err != nil {
		return nil, fmt.Errorf("render invoice template: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(html.Bytes()); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"paperWidth":   "8.27",
		"paperHeight":  fmt.Sprintf("%.2f", paperHeightInches(bill)),
		"marginTop":    "0.4",
		"marginBottom": "0.4",
		"marginLeft":   "0.4",
		"marginRight":  "0.4",
		"waitDelay":    "100",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert invoice html: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("html converter response %d: %s", resp.StatusCode, string(data))
	}

	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Document{
		Bytes:       pdfBytes,
		ContentType: "application/pdf",
		Filename:    bill.BillNumber + ".pdf",
	}, nil
}
