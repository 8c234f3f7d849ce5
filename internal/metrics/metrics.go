package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	BillsFinalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bills_finalized_total",
		Help: "Bills successfully finalized at checkout",
	})

	InvoiceDocumentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_documents_total",
		Help: "Invoice documents generated by format and outcome",
	}, []string{"format", "outcome"})
)
