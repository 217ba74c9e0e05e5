package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validMailBackends = map[string]bool{
	"log":  true,
	"smtp": true,
	"ses":  true,
}

type Config struct {
	ServerPort   string
	AppEnv       string
	AuthTestMode bool
	LogLevel     string
	FrontendURL  string
	DB           DBConfig
	JWT          JWTConfig
	Mail         MailConfig
	Telemetry    TelemetryConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthTestMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_TEST_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthTestMode && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_TEST_MODE is disabled")
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be a positive duration")
	}
	if c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be a positive duration")
	}
	if c.JWT.PasswordResetTimeout <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TIMEOUT must be a positive duration")
	}
	if _, err := url.ParseRequestURI(c.FrontendURL); err != nil {
		return fmt.Errorf("invalid FRONTEND_URL %q: %w", c.FrontendURL, err)
	}
	if !validMailBackends[c.Mail.Backend] {
		return fmt.Errorf("invalid MAIL_BACKEND %q: must be one of log, smtp, ses", c.Mail.Backend)
	}
	if c.Mail.Backend == "smtp" {
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_BACKEND is smtp")
		}
		if c.Mail.SMTPPort <= 0 {
			return fmt.Errorf("SMTP_PORT must be a positive integer")
		}
	}
	if c.Mail.Backend == "ses" && c.Mail.AWSRegion == "" {
		return fmt.Errorf("AWS_REGION is required when MAIL_BACKEND is ses")
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type JWTConfig struct {
	Secret               string
	Issuer               string
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	PasswordResetTimeout time.Duration
}

type MailConfig struct {
	Backend      string
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AWSRegion    string
}

// TelemetryConfig controls OTLP trace export. An empty endpoint disables it.
type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

func (t TelemetryConfig) Enabled() bool {
	return t.OTLPEndpoint != ""
}

// LoadDotEnv loads variables from the given files (".env" by default)
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, f := range filenames {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func Load() Config {
	return Config{
		ServerPort:   envOrDefault("SERVER_PORT", "8080"),
		AppEnv:       envOrDefault("APP_ENV", "local"),
		AuthTestMode: strings.EqualFold(envOrDefault("AUTH_TEST_MODE", "false"), "true"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		FrontendURL:  envOrDefault("FRONTEND_URL", "http://localhost:3000"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "smarttasker"),
			Password: envOrDefault("DB_PASSWORD", "smarttasker"),
			Name:     envOrDefault("DB_NAME", "smarttasker"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:               os.Getenv("JWT_SECRET"),
			Issuer:               envOrDefault("JWT_ISSUER", "smarttasker-api"),
			AccessTTL:            envDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
			RefreshTTL:           envDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
			PasswordResetTimeout: envDuration("PASSWORD_RESET_TIMEOUT", 72*time.Hour),
		},
		Mail: MailConfig{
			Backend:      strings.ToLower(envOrDefault("MAIL_BACKEND", "log")),
			From:         envOrDefault("MAIL_FROM", "noreply@smarttasker.com"),
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     envInt("SMTP_PORT", 587),
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			AWSRegion:    envOrDefault("AWS_REGION", "ap-northeast-1"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  envOrDefault("OTEL_SERVICE_NAME", "smarttasker-api"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envDuration returns 0 for unparsable values so Validate can reject them.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

// envInt returns -1 for unparsable values so Validate can reject them.
func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
