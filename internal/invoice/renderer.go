package invoice

import (
	"context"

	"gifts-backend/internal/models"
)

// Document is the opaque artifact produced by a renderer. Callers decide
// whether to download it, hand it to the print dialog, or upload it to
// object storage.
type Document struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// Renderer turns a finalized bill into a printable invoice document.
// Both implementations produce the same content: business identity block,
// bill number and date, customer block (or walk-in fallback), itemized table,
// summary block, payment breakdown and footer.
type Renderer interface {
	Render(ctx context.Context, bill *models.Bill) (*Document, error)
}

// BusinessInfo is the identity block printed at the top of every invoice.
type BusinessInfo struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	Phone        string
	Email        string
	GSTIN        string
	FooterNote   string
}
