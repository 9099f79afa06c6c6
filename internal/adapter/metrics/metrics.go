package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type Metrics struct {
	gatherer      prometheus.Gatherer
	requests      *prometheus.CounterVec
	latencyMS     *prometheus.HistogramVec
	paymentEvents *prometheus.CounterVec
	shortfall     prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		latencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		paymentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_events_total",
			Help:      "Payment provider events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		shortfall: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_shortfall_total",
			Help:      "Units missing from stock when paid orders were fulfilled.",
		}),
	}
	reg.MustRegister(m.requests, m.latencyMS, m.paymentEvents, m.shortfall)

	return m
}

func (m *Metrics) ObserveRequest(handler string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.latencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) PaymentEventHandled(kind domain.PaymentEventKind, outcome string) {
	m.paymentEvents.WithLabelValues(string(kind), outcome).Inc()
}

func (m *Metrics) StockShortfall(_ string, quantity int) {
	m.shortfall.Add(float64(quantity))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
