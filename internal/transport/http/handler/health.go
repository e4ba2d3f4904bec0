package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves the API index, the health probe and the JSON 404.
type HealthHandler struct {
	started time.Time
	env     string
	now     func() time.Time
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{started: time.Now(), env: env, now: time.Now}
}

type healthEnvelope struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

type indexEnvelope struct {
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	Documentation map[string]any `json:"documentation"`
	Environment   string         `json:"environment"`
	Timestamp     string         `json:"timestamp"`
}

type notFoundEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (h *HealthHandler) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, indexEnvelope{
		Status:  "success",
		Message: "Welcome to KGPnow API",
		Documentation: map[string]any{
			"health": "GET /api/health",
			"auth": map[string]string{
				"register":       "POST /api/auth/register",
				"login":          "POST /api/auth/login",
				"verifyOtp":      "POST /api/auth/verify-otp",
				"resendOtp":      "POST /api/auth/resend-otp",
				"forgotPassword": "POST /api/auth/forgot-password",
				"verifyResetOtp": "POST /api/auth/verify-reset-otp",
				"resetPassword":  "POST /api/auth/reset-password",
			},
			"events": map[string]string{
				"getAll": "GET /api/events",
				"getOne": "GET /api/events/:id",
				"create": "POST /api/events",
			},
		},
		Environment: h.env,
		Timestamp:   h.now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, healthEnvelope{
		Status:    "ok",
		Message:   "Server is running",
		Uptime:    now.Sub(h.started).Seconds(),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, notFoundEnvelope{Status: "error", Message: "Route not found", Path: r.URL.RequestURI()})
}

func (h *HealthHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, notFoundEnvelope{Status: "error", Message: "Method not allowed", Path: r.URL.RequestURI()})
}
