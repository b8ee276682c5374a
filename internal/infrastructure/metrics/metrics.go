package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "centralvendas/internal/errors"
)

// Recorder holds every collector the service exports.
type Recorder struct {
	service string

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	ordersCreated    *prometheus.CounterVec
	stockMovements   *prometheus.CounterVec
	businessRejected *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer, service string) *Recorder {
	r := &Recorder{
		service: service,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		ordersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders committed by the fulfillment workflow",
			},
			[]string{"service", "source"},
		),
		stockMovements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_movements_total",
				Help: "Stock ledger rows appended, by movement type",
			},
			[]string{"service", "type"},
		),
		businessRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "business_rejections_total",
				Help: "Operations rejected by a business rule, by reason",
			},
			[]string{"service", "reason"},
		),
	}

	reg.MustRegister(r.requests, r.requestDuration, r.ordersCreated, r.stockMovements, r.businessRejected)
	return r
}

func (r *Recorder) ObserveRequest(method, path, status string, seconds float64) {
	r.requests.WithLabelValues(r.service, method, path, status).Inc()
	r.requestDuration.WithLabelValues(r.service, method, path, status).Observe(seconds)
}

func (r *Recorder) OrderCreated(source string) {
	r.ordersCreated.WithLabelValues(r.service, source).Inc()
}

func (r *Recorder) StockMovement(movementType string) {
	r.stockMovements.WithLabelValues(r.service, movementType).Inc()
}

func (r *Recorder) Rejected(reason string) {
	r.businessRejected.WithLabelValues(r.service, reason).Inc()
}

// RejectedError counts err under its business reason. Other errors are ignored.
func (r *Recorder) RejectedError(err error) {
	if reason := RejectionReason(err); reason != "" {
		r.Rejected(reason)
	}
}

func RejectionReason(err error) string {
	if _, ok := apperrors.IsInsufficientStockError(err); ok {
		return "insufficient_stock"
	}
	if _, ok := apperrors.IsNegativeStockError(err); ok {
		return "negative_stock"
	}
	if _, ok := apperrors.IsQuotaExceededError(err); ok {
		return "quota_exceeded"
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return "not_found"
	}
	if _, ok := apperrors.IsValidationError(err); ok {
		return "validation"
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return "conflict"
	}
	return ""
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
