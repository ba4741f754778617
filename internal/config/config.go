package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	SwaggerHost string `envconfig:"SWAGGER_HOST"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// DB
	DBDriver    string `envconfig:"DB_DRIVER" default:"mysql"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"user:password@tcp(localhost:3306)/legal?charset=utf8mb4&parseTime=True&loc=UTC"`
	ResetDB     bool   `envconfig:"RESET_DB" default:"false"`

	// Redis
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// Auth
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"change-me"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`

	// Events
	RabbitURL           string `envconfig:"RABBIT_URL"`
	ReservationExchange string `envconfig:"RESERVATION_EXCHANGE" default:"reservations"`
	NotifyQueue         string `envconfig:"NOTIFY_QUEUE" default:"reservation-notifications"`

	// Assistant
	OpenAIAPIKey       string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel        string        `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	OpenAIBaseURL      string        `envconfig:"OPENAI_BASE_URL"`
	AssistantLookahead time.Duration `envconfig:"ASSISTANT_LOOKAHEAD" default:"336h"`

	// Jobs
	ReconcileSchedule string `envconfig:"RECONCILE_SCHEDULE" default:"@every 10m"`

	// Mail
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@legalbooking.local"`
}

// Load reads an optional .env file and builds Config from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST out of range: %d", cfg.BcryptCost)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// AllowedOrigins splits CORSOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
