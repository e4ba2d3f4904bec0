package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kgpnow-api/internal/application/auth"
	"github.com/kgpnow-api/internal/application/event"
	"github.com/kgpnow-api/internal/config"
	"github.com/kgpnow-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/kgpnow-api/internal/infrastructure/jwt"
	"github.com/kgpnow-api/internal/infrastructure/mailqueue"
	s3infra "github.com/kgpnow-api/internal/infrastructure/s3"
	"github.com/kgpnow-api/internal/infrastructure/smtp"
	"github.com/kgpnow-api/internal/logging"
	"github.com/kgpnow-api/internal/observability"
	"github.com/kgpnow-api/internal/pkg/otp"
	"github.com/kgpnow-api/internal/pkg/password"
	transporthttp "github.com/kgpnow-api/internal/transport/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var envFile string

// NewRootCmd creates the root command. Running it without a subcommand serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kgpnow-api",
		Short:         "KGPnow accounts and events API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewBootstrapCmd())
	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// NewBootstrapCmd creates the bootstrap subcommand.
func NewBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the DynamoDB tables if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := ensureContext(cmd.Context())
			client, err := dynamo.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			if err := dynamo.Bootstrap(ctx, client, cfg.DynamoTables); err != nil {
				return err
			}
			logger.Info("tables ready", "accounts", cfg.DynamoTables.Accounts, "events", cfg.DynamoTables.Events)
			return nil
		},
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	envErr := godotenv.Load(envFile)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no env file loaded, reading from environment", "path", envFile)
	}
	return cfg, logger, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func runServe(parent context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ensureContext(parent), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("dynamo client", "err", err)
		return err
	}
	if err := dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables); err != nil {
		logger.Error("bootstrap tables", "err", err)
		return err
	}
	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("s3 client", "err", err)
		return err
	}
	jwtProvider, err := jwtinfra.NewProvider(cfg.JWT.Secret, cfg.JWT.Expiry)
	if err != nil {
		logger.Error("jwt provider", "err", err)
		return err
	}

	metrics := observability.NewMetrics()
	accounts := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts)
	events := dynamo.NewEventRepo(dynamoClient, cfg.DynamoTables.Events)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)
	mail := mailqueue.New(smtp.NewMailer(cfg.SMTP), cfg.Mail.Workers, cfg.Mail.QueueSize, logger, metrics)

	deps := &transporthttp.Deps{
		AuthService: auth.NewService(auth.ServiceDeps{
			AccountRepo: accounts,
			Hasher:      password.NewHasher(cfg.Auth.BcryptCost),
			OTP:         otp.NewGenerator(cfg.Auth.OTPTTL),
			Tokens:      jwtProvider,
			Mail:        mail,
			Brand:       cfg.Mail.Brand,
			OTPTTL:      cfg.Auth.OTPTTL,
			Logger:      logger,
		}),
		EventService: event.NewService(event.ServiceDeps{
			EventRepo:   events,
			AccountRepo: accounts,
			Objects:     s3Store,
			Logger:      logger,
		}),
		AccountRepo: accounts,
		S3Store:     s3Store,
		JWTProvider: jwtProvider,
		Metrics:     metrics,
		Logger:      logger,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "err", err)
			_ = mail.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
	if err := mail.Close(shutdownCtx); err != nil {
		logger.Warn("mail queue not drained", "err", err)
	}
	logger.Info("server stopped")
	return nil
}
