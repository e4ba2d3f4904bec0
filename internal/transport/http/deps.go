package http

import (
	"log/slog"

	"github.com/kgpnow-api/internal/application/auth"
	"github.com/kgpnow-api/internal/application/event"
	"github.com/kgpnow-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/kgpnow-api/internal/infrastructure/jwt"
	s3infra "github.com/kgpnow-api/internal/infrastructure/s3"
	"github.com/kgpnow-api/internal/observability"
)

// Deps holds the services and infrastructure the router wires together.
type Deps struct {
	AuthService  auth.Service
	EventService event.Service
	AccountRepo  *dynamo.AccountRepo
	S3Store      *s3infra.Store
	JWTProvider  *jwtinfra.Provider
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}
