package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Port    string `env:"SERVER_PORT,default=8080"`
	Env     string `env:"APP_ENV,default=development"`
	GinMode string `env:"GIN_MODE,default=debug"`
}

type DBConfig struct {
	Host            string        `env:"DB_HOST,default=localhost"`
	Port            string        `env:"DB_PORT,default=5432"`
	User            string        `env:"DB_USER,default=postgres"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME,default=wehavefood"`
	SSLMode         string        `env:"DB_SSL_MODE,default=disable"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=50"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=1h"`
	LogLevel        string        `env:"DB_LOG_LEVEL,default=error"`
}

// DSN returns the PostgreSQL connection string.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type AuthConfig struct {
	// ProjectURL is the identity provider base URL; the key set lives under /.well-known/jwks.json.
	ProjectURL string `env:"AUTH_PROJECT_URL"`
	JWKSURL    string `env:"AUTH_JWKS_URL"`
}

// KeySetURL returns the configured JWKS endpoint, deriving it from ProjectURL when unset.
func (c *AuthConfig) KeySetURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return strings.TrimRight(c.ProjectURL, "/") + "/.well-known/jwks.json"
}

type S3Config struct {
	Region     string        `env:"S3_REGION"`
	Bucket     string        `env:"S3_BUCKET,default=receipts"`
	PublicURL  string        `env:"S3_PUBLIC_URL"`
	PresignTTL time.Duration `env:"S3_PRESIGN_TTL,default=15m"`
}

type AWSConfig struct {
	Region string `env:"AWS_REGION,default=us-east-1"`
}

type ReceiptConfig struct {
	Provider string `env:"RECEIPT_PARSER_PROVIDER"`

	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	ClaudeModel      string `env:"CLAUDE_MODEL,default=claude-3-5-sonnet-20241022"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL,default=https://api.anthropic.com"`

	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqModel   string `env:"GROQ_MODEL,default=llama-3.2-90b-vision-preview"`
	GroqBaseURL string `env:"GROQ_BASE_URL,default=https://api.groq.com/openai/v1"`

	VeryfiClientID     string `env:"VERYFI_CLIENT_ID"`
	VeryfiClientSecret string `env:"VERYFI_CLIENT_SECRET"`
	VeryfiUsername     string `env:"VERYFI_USERNAME"`
	VeryfiAPIKey       string `env:"VERYFI_API_KEY"`
	VeryfiBaseURL      string `env:"VERYFI_BASE_URL,default=https://api.veryfi.com/api/v8/partner"`

	Timeout       time.Duration `env:"RECEIPT_PARSER_TIMEOUT,default=60s"`
	RatePerMinute int           `env:"RECEIPT_PARSE_RATE_PER_MINUTE,default=6"`
	RateBurst     int           `env:"RECEIPT_PARSE_RATE_BURST,default=3"`
}

type OpenFoodFactsConfig struct {
	BaseURL string        `env:"OPENFOODFACTS_BASE_URL,default=https://world.openfoodfacts.org"`
	Timeout time.Duration `env:"OPENFOODFACTS_TIMEOUT,default=5s"`
}

type RedisConfig struct {
	URL      string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"BARCODE_CACHE_TTL,default=24h"`
}

type ExpiryConfig struct {
	Enabled  bool          `env:"EXPIRY_CHECK_ENABLED,default=true"`
	Schedule string        `env:"EXPIRY_CHECK_SCHEDULE,default=@every 1h"`
	Window   time.Duration `env:"EXPIRY_WARNING_WINDOW,default=48h"`
}

type PushConfig struct {
	FCMPlatformARN  string `env:"SNS_FCM_ARN"`
	APNSPlatformARN string `env:"SNS_APNS_ARN"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL,default=info"`
}

type Config struct {
	ServiceName string `env:"SERVICE_NAME,default=wehavefood-backend"`

	Server        ServerConfig
	DB            DBConfig
	Auth          AuthConfig
	AWS           AWSConfig
	S3            S3Config
	Receipt       ReceiptConfig
	OpenFoodFacts OpenFoodFactsConfig
	Redis         RedisConfig
	Expiry        ExpiryConfig
	Push          PushConfig
	Log           LogConfig
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	// .env is optional; deployed environments set variables directly
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.S3.Region == "" {
		cfg.S3.Region = cfg.AWS.Region
	}
	return &cfg, nil
}

// Fields returns a loggable, secret-free view of the configuration.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.Name),
		zap.String("s3_bucket", c.S3.Bucket),
		zap.String("receipt_provider", c.Receipt.Provider),
		zap.Bool("redis_cache", c.Redis.URL != ""),
	}
}
