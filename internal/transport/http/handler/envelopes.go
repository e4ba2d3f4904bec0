package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kgpnow-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Every error response uses it.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// SuccessEnvelope is returned by the OTP verification endpoints.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginEnvelope flattens the public account fields next to the token.
type LoginEnvelope struct {
	*domain.Account
	Token string `json:"token"`
}

// EventEnvelope wraps a created event.
type EventEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Event   *domain.EventView `json:"event"`
}

// EventListEnvelope wraps the event listing.
type EventListEnvelope struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Events  []domain.EventView `json:"events"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
