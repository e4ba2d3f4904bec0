package http

import (
	"context"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kgpnow-api/internal/config"
	"github.com/kgpnow-api/internal/transport/http/handler"
	appmiddleware "github.com/kgpnow-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// background work of the rate limiter.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: !slices.Contains(cfg.AllowedOrigins, "*"),
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.AccountRepo, deps.Logger)

	// 10 uploads per minute per IP, burst of 5
	uploadRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(10.0/60.0), 5)

	healthH := handler.NewHealthHandler(cfg.AppEnv)
	authH := handler.NewAuthHandler(deps.AuthService, deps.Logger)
	eventH := handler.NewEventHandler(deps.EventService, cfg.UploadMaxBytes, deps.Logger)
	uploadH := handler.NewUploadHandler(deps.S3Store, deps.Logger)

	r.NotFound(healthH.NotFound)
	r.MethodNotAllowed(healthH.MethodNotAllowed)

	r.Get("/", healthH.Index)
	r.Get("/uploads/*", uploadH.Serve)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/verify-otp", authH.VerifyOTP)
			r.Post("/resend-otp", authH.ResendOTP)
			r.Post("/forgot-password", authH.ForgotPassword)
			r.Post("/verify-reset-otp", authH.VerifyResetOTP)
			r.Post("/reset-password", authH.ResetPassword)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventH.List)
			r.Get("/{id}", eventH.Get)
			r.With(authMw, uploadRL.Limit).Post("/", eventH.Create)
		})
	})

	return r
}
