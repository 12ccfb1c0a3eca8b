package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	JWT       JWTConfig       `yaml:"jwt"`
	Mail      MailConfig      `yaml:"mail"`
	Notify    NotifyConfig    `yaml:"notify"`
	Display   DisplayConfig   `yaml:"display"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains admin HTTP API settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"gte=0,lte=65535"`
}

// BackendConfig points at the platform REST backend that owns organizations and plans
type BackendConfig struct {
	BaseURL        string `yaml:"base_url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ServiceSubject string `yaml:"service_subject"`
}

// DatabaseConfig contains PostgreSQL settings for the decision audit log. Empty host disables it.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// CacheConfig selects where fetched collections are kept
type CacheConfig struct {
	Type          string `yaml:"type" validate:"omitempty,oneof=memory redis"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	KeyPrefix     string `yaml:"key_prefix"`
}

// JWTConfig contains token settings
type JWTConfig struct {
	Secret             string `yaml:"secret" validate:"required,min=32"`
	ServiceTokenExpiry int    `yaml:"service_token_expiry_minutes"`
}

// MailConfig contains mail settings for the pending-request digest. SendGrid wins over SMTP
// when both are configured.
type MailConfig struct {
	SendGridAPIKey string   `yaml:"sendgrid_api_key"`
	SMTPHost       string   `yaml:"smtp_host"`
	SMTPPort       int      `yaml:"smtp_port" validate:"gte=0,lte=65535"`
	SMTPUser       string   `yaml:"smtp_user"`
	SMTPPassword   string   `yaml:"smtp_password"`
	FromEmail      string   `yaml:"from_email" validate:"omitempty,email"`
	FromName       string   `yaml:"from_name"`
	DigestTo       []string `yaml:"digest_to" validate:"dive,email"`
}

// NotifyConfig contains notification settings
type NotifyConfig struct {
	FollowUpDelayMillis int `yaml:"follow_up_delay_ms"`
	FeedSize            int `yaml:"feed_size"`
}

// DisplayConfig controls how dates are rendered
type DisplayConfig struct {
	Timezone string `yaml:"timezone"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendPendingDigest string `yaml:"send_pending_digest"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Backend
	if val := os.Getenv("BACKEND_BASE_URL"); val != "" {
		c.Backend.BaseURL = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}

	// Cache
	if val := os.Getenv("CACHE_TYPE"); val != "" {
		c.Cache.Type = val
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Cache.RedisAddr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Cache.RedisPassword = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Mail
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Mail.SendGridAPIKey = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Mail.SMTPHost = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Mail.SMTPPassword = val
	}
	if val := os.Getenv("DIGEST_TO"); val != "" {
		c.Mail.DigestTo = strings.Split(val, ",")
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// Database validation, only when the audit log is enabled
	if c.Database.Host != "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.Type == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("redis address is required for redis cache")
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "backoffice:"
	}

	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 15
	}
	if c.Backend.ServiceSubject == "" {
		c.Backend.ServiceSubject = "backoffice-requests"
	}
	if c.JWT.ServiceTokenExpiry <= 0 {
		c.JWT.ServiceTokenExpiry = 15
	}

	if (c.Mail.SendGridAPIKey != "" || c.Mail.SMTPHost != "") && c.Mail.FromEmail == "" {
		return fmt.Errorf("mail from address is required when a mail provider is configured")
	}
	if c.Mail.SMTPHost != "" && c.Mail.SMTPPort == 0 {
		c.Mail.SMTPPort = 587
	}

	// Notification defaults
	if c.Notify.FollowUpDelayMillis <= 0 {
		c.Notify.FollowUpDelayMillis = 1000
	}
	if c.Notify.FeedSize <= 0 {
		c.Notify.FeedSize = 50
	}

	if c.Display.Timezone == "" {
		c.Display.Timezone = "America/Sao_Paulo"
	}

	// Scheduler defaults
	if c.Scheduler.SendPendingDigest == "" {
		c.Scheduler.SendPendingDigest = "0 0 11 * * *" // 8 AM in Brasília
	}

	return nil
}

// AuditEnabled reports whether decisions are persisted
func (c *Config) AuditEnabled() bool {
	return c.Database.Host != ""
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the admin HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) FollowUpDelay() time.Duration {
	return time.Duration(c.Notify.FollowUpDelayMillis) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// DisplayLocation loads the configured timezone, falling back to UTC when tzdata is unavailable
func (c *Config) DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
