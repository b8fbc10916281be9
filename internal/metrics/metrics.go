// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pet-adoption/internal/ports/kv"
)

type Collector struct {
	kvOps        *prometheus.CounterVec
	kvLatency    *prometheus.HistogramVec
	swipes       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		kvOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adopit_kv_operations_total",
			Help: "Operaciones sobre el almacenamiento clave-valor por tipo y resultado.",
		}, []string{"op", "result"}),
		kvLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adopit_kv_operation_seconds",
			Help:    "Latencia de las operaciones de almacenamiento.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		swipes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adopit_swipes_total",
			Help: "Swipes registrados por acción.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adopit_http_requests_total",
			Help: "Requests HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adopit_http_request_seconds",
			Help:    "Latencia de los requests HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(c.kvOps, c.kvLatency, c.swipes, c.httpRequests, c.httpLatency)
	return c
}

func (c *Collector) RecordSwipe(action string) {
	c.swipes.WithLabelValues(action).Inc()
}

func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// observeKV: una clave inexistente cuenta como "miss", no como error.
func (c *Collector) observeKV(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, kv.ErrNotFound):
		result = "miss"
	case err != nil:
		result = "error"
	}
	c.kvOps.WithLabelValues(op, result).Inc()
	c.kvLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// instrumentedStore envuelve un kv.Store y mide cada operación.
type instrumentedStore struct {
	next kv.Store
	c    *Collector
}

func InstrumentStore(next kv.Store, c *Collector) kv.Store {
	if c == nil {
		return next
	}
	return &instrumentedStore{next: next, c: c}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, key)
	s.c.observeKV("get", start, err)
	return v, err
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.c.observeKV("set", start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := s.next.Delete(ctx, keys...)
	s.c.observeKV("delete", start, err)
	return err
}

func (s *instrumentedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := s.next.Keys(ctx, prefix)
	s.c.observeKV("keys", start, err)
	return keys, err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
