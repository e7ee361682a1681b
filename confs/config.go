package confs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is resolved once at process start and treated as read-only afterwards.
type Config struct {
	APIKey          string        `validate:"required"`
	Port            string        `validate:"required,numeric"`
	GinMode         string        `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	Database DatabaseConfig
	Logging  LoggingConfig
	Influx   InfluxConfig
}

type DatabaseConfig struct {
	Driver      string `validate:"oneof=postgres sqlite"`
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	Path        string `validate:"required_if=Driver sqlite"`
	AutoMigrate bool
}

type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn warning error"`
	Format string `validate:"oneof=json text"`
}

// InfluxConfig is optional; an empty URL disables the mirror.
type InfluxConfig struct {
	URL    string `validate:"omitempty,url"`
	Token  string `validate:"required_with=URL"`
	Org    string `validate:"required_with=URL"`
	Bucket string `validate:"required_with=URL"`
}

// Enabled reports whether readings should be mirrored to InfluxDB.
func (c InfluxConfig) Enabled() bool { return c.URL != "" }

var validate = validator.New()

// LoadConfig loads environment variables from a .env file if present
// and builds a validated Config from them.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	shutdown, err := time.ParseDuration(getenvDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		APIKey:          os.Getenv("API_KEY"),
		Port:            getenvDefault("PORT", "8787"),
		GinMode:         getenvDefault("GIN_MODE", "release"),
		ShutdownTimeout: shutdown,
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getenvDefault("DB_DRIVER", DriverPostgres)),
			URL:         os.Getenv("DB_URL"),
			Host:        os.Getenv("DB_HOST"),
			Port:        os.Getenv("DB_PORT"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        os.Getenv("DB_NAME"),
			Path:        getenvDefault("DB_PATH", "ieqi.db"),
			AutoMigrate: getenvBool("DB_AUTO_MIGRATE", true),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getenvDefault("LOG_FORMAT", "json")),
		},
		Influx: InfluxConfig{
			URL:    os.Getenv("INFLUX_URL"),
			Token:  os.Getenv("INFLUX_TOKEN"),
			Org:    os.Getenv("INFLUX_ORG"),
			Bucket: os.Getenv("INFLUX_BUCKET"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints plus the postgres connection settings,
// which are either DB_URL or the full set of individual parameters.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	d := c.Database
	if d.Driver == DriverPostgres && d.URL == "" {
		if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.Name == "" {
			return fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
		}
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
