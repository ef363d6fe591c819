// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/wishlist"
)

// Metrics holds the storefront collectors and the registry they live in
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	CartEvents         *prometheus.CounterVec
	WishlistEvents     *prometheus.CounterVec
	WishlistWrites     *prometheus.CounterVec
	CheckoutsCompleted prometheus.Counter
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		CartEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cart_events_total",
				Help: "Total number of applied cart mutations by event type",
			},
			[]string{"type"},
		),
		WishlistEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_wishlist_events_total",
				Help: "Total number of applied wishlist changes by event type",
			},
			[]string{"type"},
		),
		WishlistWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_wishlist_writes_total",
				Help: "Total number of wishlist snapshot writes by result",
			},
			[]string{"result"},
		),
		CheckoutsCompleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_checkouts_completed_total",
				Help: "Total number of completed checkouts",
			},
		),
	}
}

// Registry returns the registry backing m
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CartListener counts cart events
func (m *Metrics) CartListener() cart.Listener {
	return cart.ListenerFunc(func(e cart.Event) {
		m.CartEvents.WithLabelValues(string(e.Type)).Inc()
	})
}

// WishlistListener counts wishlist events
func (m *Metrics) WishlistListener() wishlist.Listener {
	return wishlist.ListenerFunc(func(e wishlist.Event) {
		m.WishlistEvents.WithLabelValues(string(e.Type)).Inc()
	})
}

// ObserveWishlistWrite records the result of one background write
func (m *Metrics) ObserveWishlistWrite(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.WishlistWrites.WithLabelValues(result).Inc()
}

// TrackCart exposes the live size of c as gauges
func (m *Metrics) TrackCart(c *cart.Engine) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "storefront_cart_lines",
			Help: "Number of distinct lines in the cart",
		}, func() float64 { return float64(c.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "storefront_cart_items",
			Help: "Total quantity across cart lines",
		}, func() float64 { return float64(c.ItemCount()) }),
	)
}

// TrackWishlist exposes the live size of w as a gauge
func (m *Metrics) TrackWishlist(w *wishlist.Engine) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "storefront_wishlist_entries",
			Help: "Number of saved wishlist entries",
		}, func() float64 { return float64(w.Count()) }),
	)
}
