package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	logBuffer := new(bytes.Buffer)
	testLogger := slog.New(slog.NewJSONHandler(logBuffer, nil))

	mockResponseBody := `{"message":"Customer created successfully"}`
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(mockResponseBody))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/customer?x=1", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-123"))

	rr := httptest.NewRecorder()
	StructuredLogger(testLogger)(nextHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, mockResponseBody, rr.Body.String())

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(logBuffer.Bytes(), &logEntry))

	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "Served request", logEntry["msg"])
	assert.Equal(t, http.MethodPost, logEntry["method"])
	assert.Equal(t, "/api/customer", logEntry["path"])
	assert.Equal(t, req.RemoteAddr, logEntry["remote_addr"])
	assert.Equal(t, "TestAgent/1.0", logEntry["user_agent"])
	assert.Equal(t, float64(http.StatusCreated), logEntry["status"])
	assert.Equal(t, float64(len(mockResponseBody)), logEntry["bytes_written"])
	assert.Equal(t, "req-123", logEntry["request_id"])

	latency, ok := logEntry["latency_ms"].(float64)
	assert.True(t, ok)
	assert.Greater(t, latency, 0.0)
}

func TestStructuredLogger_ServerErrorLoggedAsError(t *testing.T) {
	logBuffer := new(bytes.Buffer)
	testLogger := slog.New(slog.NewJSONHandler(logBuffer, nil))

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/customer/ACC1", nil)
	StructuredLogger(testLogger)(nextHandler).ServeHTTP(httptest.NewRecorder(), req)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(logBuffer.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, "", logEntry["request_id"])
	assert.Equal(t, float64(http.StatusInternalServerError), logEntry["status"])
}
