package handler

import (
	"log/slog"
	"net/http"

	"github.com/kgpnow-api/internal/application/auth"
	"github.com/kgpnow-api/internal/domain"
)

// AuthHandler serves the /api/auth credential lifecycle.
type AuthHandler struct {
	svc    auth.Service
	logger *slog.Logger
}

func NewAuthHandler(svc auth.Service, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.svc.Register(r.Context(), req); err != nil {
		writeServiceError(w, r, h.logger, err, "Error registering user", nil)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "Registration successful! Check your email for OTP."})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.VerifyOTP(r.Context(), req); err != nil {
		writeServiceError(w, r, h.logger, err, "Error verifying OTP", nil)
		return
	}
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true, Message: "OTP verified successfully! You can now login."})
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.ResendOTP(r.Context(), req); err != nil {
		writeServiceError(w, r, h.logger, err, "Error resending OTP", nil)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "New OTP sent to your email."})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error logging in", messages{
			domain.ErrValidation: "Please provide email and password",
		})
		return
	}
	writeJSON(w, http.StatusOK, LoginEnvelope{Account: res.Account, Token: res.Token})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, h.logger, err, "Error sending password reset OTP", nil)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password reset OTP sent to your email."})
}

func (h *AuthHandler) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.VerifyResetOTP(r.Context(), req); err != nil {
		writeServiceError(w, r, h.logger, err, "Error verifying OTP", nil)
		return
	}
	writeJSON(w, http.StatusOK, SuccessEnvelope{Success: true, Message: "OTP verified successfully"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, h.logger, err, "Error resetting password", messages{
			domain.ErrNotVerified: "Please verify your email first",
			domain.ErrOTPExpired:  "OTP has expired. Please request a new one.",
			domain.ErrInvalidOTP:  "Invalid OTP. Please check and try again.",
		})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password reset successful! You can now login."})
}
