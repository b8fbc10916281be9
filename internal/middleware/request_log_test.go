package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/platform/logger"
)

type observed struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	calls []observed
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	o.calls = append(o.calls, observed{method: method, route: route, status: status})
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Writer: &buf})
	obs := &recordingObserver{}

	r := chi.NewRouter()
	r.Use(RequestLog(log, obs))
	r.Get("/pets/{petID}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "pet not found", http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pets/abc", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, obs.calls, 2)
	assert.Equal(t, observed{method: "GET", route: "/pets/{petID}", status: 404}, obs.calls[0])
	assert.Equal(t, observed{method: "GET", route: "/health", status: 200}, obs.calls[1])

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"route":"/pets/{petID}"`)
	assert.Contains(t, out, `"status":404`)
}
