package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler("development")
	h.started = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return h.started.Add(90 * time.Second) }

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	body := decodeBody(t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(90), body["uptime"])
	assert.Equal(t, "2026-01-01T00:01:30Z", body["timestamp"])
}

func TestIndex(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler("production").Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	body := decodeBody(t, rr)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "production", body["environment"])
}

func TestNotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler("").NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope?x=1", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "/nope?x=1", decodeBody(t, rr)["path"])
}
