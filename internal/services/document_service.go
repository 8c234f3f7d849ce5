package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gifts-backend/internal/billing"
	"gifts-backend/internal/invoice"
	"gifts-backend/internal/metrics"
	"gifts-backend/internal/models"
)

// Document formats offered at checkout.
const (
	FormatPDF   = "pdf"
	FormatPrint = "print"
)

var ErrUnknownFormat = errors.New("unknown document format")

// Uploader stores a generated document and returns its public URL.
type Uploader interface {
	UploadDocument(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// DocumentService turns finalized bills into invoice documents and pushes
// them to object storage. Rendering is format-selected between the direct
// PDF composer and the print pipeline.
type DocumentService struct {
	PDF      invoice.Renderer
	Print    invoice.Renderer
	Uploader Uploader
}

func NewDocumentService(pdf, print invoice.Renderer, uploader Uploader) *DocumentService {
	return &DocumentService{PDF: pdf, Print: print, Uploader: uploader}
}

func (s *DocumentService) renderer(format string) (invoice.Renderer, error) {
	switch format {
	case FormatPDF, "":
		return s.PDF, nil
	case FormatPrint:
		if s.Print == nil {
			return nil, errors.New("print pipeline is not configured")
		}
		return s.Print, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Generate renders the invoice document for a bill without storing it.
func (s *DocumentService) Generate(ctx context.Context, bill *models.Bill, format string) (*invoice.Document, error) {
	r, err := s.renderer(format)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, bill)
}

// GenerateAndStore renders the invoice and uploads it, returning the stored
// document's URL.
func (s *DocumentService) GenerateAndStore(ctx context.Context, bill *models.Bill, format string) (string, error) {
	if format == "" {
		format = FormatPDF
	}

	doc, err := s.Generate(ctx, bill, format)
	if err != nil {
		metrics.InvoiceDocumentsTotal.WithLabelValues(format, "error").Inc()
		return "", fmt.Errorf("%w: render %s: %w", billing.ErrDocumentGeneration, bill.BillNumber, err)
	}

	key := "invoices/" + doc.Filename
	url, err := s.Uploader.UploadDocument(ctx, key, doc.ContentType, doc.Bytes)
	if err != nil {
		metrics.InvoiceDocumentsTotal.WithLabelValues(format, "error").Inc()
		return "", fmt.Errorf("%w: upload %s: %w", billing.ErrDocumentGeneration, bill.BillNumber, err)
	}
	metrics.InvoiceDocumentsTotal.WithLabelValues(format, "ok").Inc()

	log.Printf("[Documents] stored invoice %s (%d bytes) at %s", bill.BillNumber, len(doc.Bytes), url)
	return url, nil
}
