package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		status int
		want   string
	}{
		{"no pinger", nil, http.StatusOK, "ok"},
		{"healthy backend", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, "ok"},
		{"backend down", pingerFunc(func(context.Context) error { return fmt.Errorf("connection refused") }), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(Options{Backend: "postgres", Pinger: tt.pinger}, nil)
			w := get(t, h, "/healthz")

			assert.Equal(t, tt.status, w.Code)
			var body health
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, "postgres", body.Backend)
		})
	}
}

func TestProfilerOnlyWhenEnabled(t *testing.T) {
	off := NewRouter(Options{Backend: "fs"}, nil)
	assert.Equal(t, http.StatusNotFound, get(t, off, "/debug/pprof/").Code)

	on := NewRouter(Options{Backend: "fs", Profiling: true}, nil)
	assert.Equal(t, http.StatusOK, get(t, on, "/debug/pprof/").Code)
}
