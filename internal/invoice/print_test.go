package invoice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRendererSendsStyledHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, _, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		htmlContent, err := io.ReadAll(file)
		require.NoError(t, err)

		html := string(htmlContent)
		assert.Contains(t, html, "TAX INVOICE")
		assert.Contains(t, html, "GB-000042")
		assert.Contains(t, html, "Lotus Gifts &amp; Crafts")
		assert.Contains(t, html, "Asha Verma")
		assert.Contains(t, html, "Scented Candle 1")
		assert.Contains(t, html, "Rs. 1,000.00")
		assert.Contains(t, html, "Balance Due")

		// Page height scales with content, A4 minimum for a short bill.
		assert.Equal(t, "8.27", r.FormValue("paperWidth"))
		assert.Equal(t, "11.70", r.FormValue("paperHeight"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("%PDF-MOCK"))
	}))
	defer srv.Close()

	r, err := NewPrintRenderer(testBusiness(), srv.URL, srv.Client())
	require.NoError(t, err)

	doc, err := r.Render(context.Background(), testBill(2))
	require.NoError(t, err)
	require.Equal(t, "application/pdf", doc.ContentType)
	require.Equal(t, "GB-000042.pdf", doc.Filename)
	require.Equal(t, []byte("%PDF-MOCK"), doc.Bytes)
}

func TestPrintRendererWalkInFallback(t *testing.T) {
	var html string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		file, _, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		html = string(data)
		_, _ = w.Write([]byte("%PDF-MOCK"))
	}))
	defer srv.Close()

	bill := testBill(1)
	bill.CustomerName = ""
	bill.CustomerPhone = ""

	r, err := NewPrintRenderer(testBusiness(), srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = r.Render(context.Background(), bill)
	require.NoError(t, err)
	assert.Contains(t, html, "Walk-in Customer")
	assert.NotContains(t, html, "Asha Verma")
}

func TestPrintRendererTallPageForLongBills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		// 120 lines outgrow A4: 6.0 + 0.22*120 + 0.22*1
		assert.Equal(t, "32.62", r.FormValue("paperHeight"))
		_, _ = w.Write([]byte("%PDF-MOCK"))
	}))
	defer srv.Close()

	r, err := NewPrintRenderer(testBusiness(), srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = r.Render(context.Background(), testBill(120))
	require.NoError(t, err)
}

func TestPrintRendererConverterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := NewPrintRenderer(testBusiness(), srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = r.Render(context.Background(), testBill(1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestPrintRendererRequiresEndpoint(t *testing.T) {
	r, err := NewPrintRenderer(testBusiness(), "", nil)
	require.NoError(t, err)
	_, err = r.Render(context.Background(), testBill(1))
	require.Error(t, err)
}
