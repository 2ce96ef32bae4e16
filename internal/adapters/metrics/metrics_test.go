package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwchain/hwchain-cli/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGateCollector(t *testing.T) {
	c := NewGateCollector()

	c.PulseReceived()
	c.PulseReceived()
	c.PulseDropped()
	c.PulseDuplicate()
	c.PulseHandled(domain.PulseCountdown)
	c.PulseHandled(domain.PulseCenter)
	c.PulseHandled(domain.PulseCountdown)
	c.SetQueueDepth(3)
	c.SetLastBlock(1234)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.received))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.duplicates))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.handled.WithLabelValues("countdown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.handled.WithLabelValues("center")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.queueDepth))
	assert.Equal(t, 1234.0, testutil.ToFloat64(c.lastBlock))
}

func TestServerRoutes(t *testing.T) {
	c := NewGateCollector()
	c.PulseReceived()
	s := NewServer(c, testLogger())

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/healthz", wantCode: http.StatusOK, wantBody: `"status":"ok"`},
		{path: "/metrics", wantCode: http.StatusOK, wantBody: "hwchain_gate_pulses_received_total 1"},
		{path: "/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServeStopsWithContext(t *testing.T) {
	s := NewServer(NewGateCollector(), testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, "127.0.0.1:0") }()

	var addr string
	select {
	case addr = <-s.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "ok"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
