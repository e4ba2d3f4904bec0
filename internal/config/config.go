package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"3001"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	AWS          AWS          `envPrefix:"AWS_"`
	DynamoTables DynamoTables `envPrefix:"DYNAMO_TABLE_"`
	S3BucketName string       `env:"S3_BUCKET_NAME" envDefault:"kgpnow-uploads"`

	JWT  JWT  `envPrefix:"JWT_"`
	Auth Auth

	SMTP SMTP `envPrefix:"SMTP_"`
	Mail Mail `envPrefix:"MAIL_"`

	// A "*" entry turns credentialed CORS off.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:3001,http://localhost:5173,https://kgpnow.vercel.app,https://kgpnow-backend.vercel.app" envSeparator:","`

	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP replace the peer
	// address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
}

// AWS holds credentials and endpoint overrides shared by DynamoDB and S3.
type AWS struct {
	Region      string `env:"REGION" envDefault:"us-east-1"`
	EndpointURL string `env:"ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AccessKeyID string `env:"ACCESS_KEY_ID"`
	SecretKey   string `env:"SECRET_ACCESS_KEY"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts string `env:"ACCOUNTS" envDefault:"accounts"`
	Events   string `env:"EVENTS" envDefault:"events"`
}

// JWT holds the session token signing parameters.
type JWT struct {
	Secret string        `env:"SECRET,required,notEmpty"`
	Expiry time.Duration `env:"EXPIRY" envDefault:"720h"`
}

// Auth tunes the credential lifecycle.
type Auth struct {
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	OTPTTL     time.Duration `env:"OTP_TTL" envDefault:"10m"`
}

// SMTP holds outbound mail transport settings.
type SMTP struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"1025"`
	From     string `env:"FROM" envDefault:"noreply@kgpnow.app"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// Mail sizes the background mail queue and brands the templates.
type Mail struct {
	Workers   int    `env:"WORKERS" envDefault:"2"`
	QueueSize int    `env:"QUEUE_SIZE" envDefault:"100"`
	Brand     string `env:"BRAND" envDefault:"KGPnow"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Mail.Workers < 1 {
		cfg.Mail.Workers = 1
	}
	return &cfg, nil
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }
