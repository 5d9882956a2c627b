package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records business counters for order placement.
type CheckoutMetrics struct {
	ordersPlaced   *prometheus.CounterVec
	stockConflicts prometheus.Counter
	orderValue     prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed, labelled by payment method.",
	}, []string{"payment_method"})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stock_conflicts_total",
		Help: "Order attempts rejected because stock ran out during placement.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_cents",
		Help:    "Distribution of order totals in cents.",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
	})
	reg.MustRegister(ordersPlaced, stockConflicts, orderValue)
	return &CheckoutMetrics{
		ordersPlaced:   ordersPlaced,
		stockConflicts: stockConflicts,
		orderValue:     orderValue,
	}
}

// IncOrderPlaced increments the placed-orders counter for a payment method.
func (c *CheckoutMetrics) IncOrderPlaced(paymentMethod string, totalCents int64) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	c.orderValue.Observe(float64(totalCents))
}

// IncStockConflict increments the oversell-rejection counter.
func (c *CheckoutMetrics) IncStockConflict() {
	if c == nil || c.stockConflicts == nil {
		return
	}
	c.stockConflicts.Inc()
}
