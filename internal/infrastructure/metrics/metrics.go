// Package metrics exposes Prometheus collectors for HTTP traffic and catalog usage.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	searches        prometheus.Counter
	suggestions     prometheus.Counter
	interactions    *prometheus.CounterVec
	catalogReloads  *prometheus.CounterVec
	catalogGames    prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamehub_searches_total",
			Help: "Total number of filtered game listings",
		}),
		suggestions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gamehub_suggestions_total",
			Help: "Total number of suggestion lookups",
		}),
		interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamehub_interactions_total",
				Help: "Visitor interactions by action",
			},
			[]string{"action"},
		),
		catalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamehub_catalog_reloads_total",
				Help: "Catalog reload attempts by result",
			},
			[]string{"result"},
		),
		catalogGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gamehub_catalog_games",
			Help: "Number of games in the loaded catalog",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.searches,
		m.suggestions,
		m.interactions,
		m.catalogReloads,
		m.catalogGames,
	)
	return m
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", c.Response().Status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSearch() {
	if m != nil {
		m.searches.Inc()
	}
}

func (m *Metrics) ObserveSuggestion() {
	if m != nil {
		m.suggestions.Inc()
	}
}

func (m *Metrics) ObserveInteraction(action string) {
	if m != nil {
		m.interactions.WithLabelValues(action).Inc()
	}
}

// ObserveReload counts a reload attempt and, on success, updates the catalog size.
func (m *Metrics) ObserveReload(err error, games int) {
	if m == nil {
		return
	}
	if err != nil {
		m.catalogReloads.WithLabelValues("error").Inc()
		return
	}
	m.catalogReloads.WithLabelValues("ok").Inc()
	m.catalogGames.Set(float64(games))
}
