package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersCreatedTotal prometheus.Counter
	CustomersDeletedTotal prometheus.Counter
	ImportRowsTotal       *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_ledger_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_ledger_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_ledger_customers_created_total",
				Help: "Total number of customers successfully created.",
			},
		),
		CustomersDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_ledger_customers_deleted_total",
				Help: "Total number of customers deleted.",
			},
		),
		ImportRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_ledger_import_rows_total",
				Help: "Spreadsheet import rows by outcome.",
			},
			[]string{"outcome"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}

func RecordCustomerDeleted() {
	Business.CustomersDeletedTotal.Inc()
}

// RecordImportRows counts import outcomes. Every imported row is also a
// created customer.
func RecordImportRows(imported, failed int) {
	Business.CustomersCreatedTotal.Add(float64(imported))
	Business.ImportRowsTotal.WithLabelValues("imported").Add(float64(imported))
	Business.ImportRowsTotal.WithLabelValues("failed").Add(float64(failed))
}
