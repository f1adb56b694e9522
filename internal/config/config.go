package config

import (
	"fmt"  // Error wrapping
	"time" // Session lifetime

	"github.com/ilyakaznacheev/cleanenv" // Typed environment parsing
	"github.com/joho/godotenv"           // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort      string        `env:"APP_PORT" env-default:"8080"`          // Application port
	DBDriver     string        `env:"DB_DRIVER" env-default:"mysql"`        // mysql, postgres or sqlite
	DBUser       string        `env:"DB_USER"`                              // Database user
	DBPassword   string        `env:"DB_PASSWORD"`                          // Database password
	DBHost       string        `env:"DB_HOST" env-default:"127.0.0.1"`      // Database host
	DBPort       string        `env:"DB_PORT" env-default:"3306"`           // Database port
	DBName       string        `env:"DB_NAME" env-default:"dorm_booking"`   // Database name
	DBPath       string        `env:"DB_PATH" env-default:"dormbooking.db"` // SQLite file when DB_DRIVER=sqlite
	JWTSecret    string        `env:"JWT_SECRET" env-required:"true"`       // Session token signing key
	SessionTTL   time.Duration `env:"SESSION_TTL" env-default:"24h"`        // Session lifetime
	RedisAddr    string        `env:"REDIS_ADDR" env-default:"127.0.0.1:6379"`
	RedisPass    string        `env:"REDIS_PASS"`
	RedisDB      int           `env:"REDIS_DB" env-default:"0"`
	MetricsAddr  string        `env:"METRICS_ADDR" env-default:"127.0.0.1:9090"`
	UploadDir    string        `env:"UPLOAD_DIR" env-default:"uploads"` // Payment receipts land here
	IsProd       bool          `env:"IS_PROD" env-default:"false"`      // Is production environment
	LogLevel     string        `env:"LOG_LEVEL" env-default:"info"`     // logrus level name
	ServiceName  string        `env:"OTEL_SERVICE_NAME" env-default:"dorm-booking"`
	OTLPEndpoint string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"` // Tracing is off when empty
	OTLPInsecure bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"false"`
	Mail         Mail
}

// Mail configures the outbound notification transport
type Mail struct {
	Transport    string `env:"MAIL_TRANSPORT" env-default:"log"` // log, smtp or webhook
	From         string `env:"MAIL_FROM" env-default:"no-reply@dorms.example.edu"`
	FromName     string `env:"MAIL_FROM_NAME" env-default:"Dorm Finder"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	WebhookURL   string `env:"MAIL_WEBHOOK_URL"`
	WebhookToken string `env:"MAIL_WEBHOOK_TOKEN"`
}

// LoadConfig loads configuration from the environment, after an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	case "sqlite":
		return c.DBPath
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
}
