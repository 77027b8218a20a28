package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the wizard's billing side effects.
type CheckoutMetrics struct {
	invoicesCreated  prometheus.Counter
	paymentsRecorded *prometheus.CounterVec
	hostedRedirects  prometheus.Counter
	stepDuration     *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	invoicesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_invoices_created_total",
		Help: "Invoices created from confirmed selections.",
	})
	paymentsRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payments_recorded_total",
		Help: "Payments recorded against invoices.",
	}, []string{"method_kind"})
	hostedRedirects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_hosted_redirects_total",
		Help: "Hosted checkout sessions handed to the browser.",
	})
	stepDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_operation_duration_seconds",
		Help:    "Duration of checkout wizard operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(invoicesCreated, paymentsRecorded, hostedRedirects, stepDuration)
	return &CheckoutMetrics{
		invoicesCreated:  invoicesCreated,
		paymentsRecorded: paymentsRecorded,
		hostedRedirects:  hostedRedirects,
		stepDuration:     stepDuration,
	}
}

// IncInvoiceCreated increments the invoice counter.
func (c *CheckoutMetrics) IncInvoiceCreated() {
	if c == nil || c.invoicesCreated == nil {
		return
	}
	c.invoicesCreated.Inc()
}

// IncPaymentRecorded increments the payment counter for a method kind.
func (c *CheckoutMetrics) IncPaymentRecorded(methodKind string) {
	if c == nil || c.paymentsRecorded == nil {
		return
	}
	if methodKind == "" {
		methodKind = "unknown"
	}
	c.paymentsRecorded.WithLabelValues(methodKind).Inc()
}

// IncHostedRedirect increments the hosted session counter.
func (c *CheckoutMetrics) IncHostedRedirect() {
	if c == nil || c.hostedRedirects == nil {
		return
	}
	c.hostedRedirects.Inc()
}

// ObserveOperation records the duration of a named wizard operation.
func (c *CheckoutMetrics) ObserveOperation(operation string, duration time.Duration) {
	if c == nil || c.stepDuration == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	c.stepDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
