package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/statbar/internal/app/loop"
	"github.com/tutu-network/statbar/internal/domain"
	"github.com/tutu-network/statbar/internal/infra/metrics"
)

type fixedStatus loop.Status

func (f fixedStatus) Status() loop.Status { return loop.Status(f) }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewServer(fixedStatus{}, "test", nil).Handler()
	w := get(t, h, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestVersion(t *testing.T) {
	w := get(t, NewServer(fixedStatus{}, "1.2.3", nil).Handler(), "/api/version")
	assert.JSONEq(t, `{"version":"1.2.3"}`, w.Body.String())
}

func TestSample(t *testing.T) {
	s := domain.Sample{Mode: domain.ModeCPU, Source: "proc", Value: 15}
	st := fixedStatus{Mode: domain.ModeCPU, Source: "proc", Line: " 15.0", Sample: &s, Iterations: 3}
	w := get(t, NewServer(st, "test", nil).Handler(), "/api/sample")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "cpu", got["mode"])
	assert.Equal(t, " 15.0", got["line"])
	assert.Equal(t, 3.0, got["iterations"])
	sample := got["sample"].(map[string]any)
	assert.Equal(t, 15.0, sample["value"])
}

func TestSample_ErrorLine(t *testing.T) {
	st := fixedStatus{Mode: domain.ModeTemperature, Source: "nws", Line: "ERR", Error: "boom", Iterations: 1}
	w := get(t, NewServer(st, "test", nil).Handler(), "/api/sample")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"line":"ERR"`)
	assert.Contains(t, w.Body.String(), `"error":"boom"`)
	assert.NotContains(t, w.Body.String(), `"sample"`)
}

func TestSample_NoneYet(t *testing.T) {
	w := get(t, NewServer(fixedStatus{}, "test", nil).Handler(), "/api/sample")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no sample yet")
}

func TestMetrics(t *testing.T) {
	metrics.Recorder{}.ObserveSample(domain.Sample{Mode: domain.ModeMemory, Source: "free", Value: 25}, time.Millisecond)

	w := get(t, NewServer(fixedStatus{}, "test", nil).Handler(), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `statbar_metric_value{mode="mem",source="free"} 25`)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(fixedStatus{}, "test", nil).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "ok"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestListenAndServe_BadAddr(t *testing.T) {
	err := NewServer(fixedStatus{}, "test", nil).ListenAndServe(context.Background(), "not-an-addr")
	assert.Error(t, err)
}
