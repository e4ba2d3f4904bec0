package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kgpnow-api/internal/domain"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings translates domain sentinels into responses. An empty message
// means the error text itself is shown.
var errorMappings = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, ""},
	{domain.ErrDuplicateAccount, http.StatusBadRequest, "User already exists"},
	{domain.ErrNotFound, http.StatusBadRequest, "User not found"},
	{domain.ErrAlreadyVerified, http.StatusBadRequest, "User already verified"},
	{domain.ErrOTPExpired, http.StatusBadRequest, "OTP expired. Please request a new one."},
	{domain.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrNotVerified, http.StatusForbidden, "Please verify your email with OTP before logging in"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Not authorized, token failed"},
	{domain.ErrEventNotFound, http.StatusNotFound, "Event not found"},
	{domain.ErrDuplicateEvent, http.StatusBadRequest, "An event with the same name, date, venue, and organization already exists"},
}

// messages overrides the default text for a sentinel on one endpoint.
type messages map[error]string

// writeServiceError maps err onto its status and message. Unmapped errors are
// logged and answered with fallback as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string, overrides messages) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if o, ok := overrides[m.target]; ok {
			msg = o
		}
		if msg == "" {
			msg = err.Error()
		}
		writeError(w, m.status, msg)
		return
	}
	logger.ErrorContext(r.Context(), fallback, "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, fallback)
}
