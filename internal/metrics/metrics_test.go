package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/adapters/storage/memory"
	"pet-adoption/internal/ports/kv"
)

// counterValue busca la serie con exactamente esas etiquetas.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	if len(m.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestCollector_Swipes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSwipe("like")
	c.RecordSwipe("like")
	c.RecordSwipe("pass")

	assert.Equal(t, 2.0, counterValue(t, reg, "adopit_swipes_total", map[string]string{"action": "like"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "adopit_swipes_total", map[string]string{"action": "pass"}))
}

func TestCollector_HTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveHTTP("GET", "/pets/{petID}", 404, 3*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, reg, "adopit_http_requests_total",
		map[string]string{"method": "GET", "route": "/pets/{petID}", "status": "404"}))
}

func TestInstrumentStore(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	s := InstrumentStore(memory.NewStore(), c)

	require.NoError(t, s.Set(ctx, "@pets/1", []byte(`{}`)))
	_, err := s.Get(ctx, "@pets/1")
	require.NoError(t, err)
	_, err = s.Get(ctx, "@pets/2")
	require.ErrorIs(t, err, kv.ErrNotFound)
	_, err = s.Keys(ctx, "@pets/")
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg, "adopit_kv_operations_total", map[string]string{"op": "set", "result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "adopit_kv_operations_total", map[string]string{"op": "get", "result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "adopit_kv_operations_total", map[string]string{"op": "get", "result": "miss"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "adopit_kv_operations_total", map[string]string{"op": "keys", "result": "ok"}))
}

func TestInstrumentStore_NilCollector(t *testing.T) {
	base := memory.NewStore()
	assert.Same(t, kv.Store(base), InstrumentStore(base, nil))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSwipe("like")

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := rr.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `adopit_swipes_total{action="like"} 1`)
}
