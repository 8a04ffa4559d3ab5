package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"physiofit/physiofit/utils/logging"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHealthCheck(t *testing.T) {
	hc := NewHealthController("qwen2.5:7b")
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	hc.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	expectedBody := `{"model":"qwen2.5:7b","status":"ok"}` + "\n"
	if rr.Body.String() != expectedBody {
		t.Errorf("expected body %q, got %q", expectedBody, rr.Body.String())
	}

	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %v", rr.Header().Get("Content-Type"))
	}
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHealthCheckLogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	prev := logging.ErrorLogger
	logging.ErrorLogger = zap.New(core)
	defer func() { logging.ErrorLogger = prev }()

	NewHealthController("m").HealthCheck(brokenWriter{httptest.NewRecorder()}, httptest.NewRequest("GET", "/", nil))

	if logs.FilterMessage("encoding health response").Len() != 1 {
		t.Errorf("expected the write failure to be logged, got %v", logs.All())
	}
}
