package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the whole application configuration, built once in main and handed to every component.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logger   LoggerConfig
	Metrics  MetricsConfig
	Upload   UploadConfig

	GoEnv string // development/production
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type DatabaseConfig struct {
	Driver string // postgres | mysql
	URL    string // takes precedence over the discrete fields

	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
}

type LoggerConfig struct {
	Level  string // debug/info/warn/error
	Format string // json/console
}

type MetricsConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
	OTLPInsecure   bool
	ExportInterval time.Duration
}

type UploadConfig struct {
	MaxImageBytes int64
}

// Load reads the environment. godotenv has already populated it from .env when present.
func Load() (Config, error) {
	dbPort, err := getEnvAsInt("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	maxOpen, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return Config{}, err
	}
	maxIdle, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, err
	}
	ttlMinutes, err := getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return Config{}, err
	}
	bcryptCost, err := getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return Config{}, err
	}
	maxImage, err := getEnvAsInt("MAX_IMAGE_BYTES", 5<<20)
	if err != nil {
		return Config{}, err
	}
	metricsEnabled, err := getEnvAsBool("METRICS_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	otlpInsecure, err := getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return Config{}, err
	}
	readTimeout, err := getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	connLifetime, err := getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	slowQuery, err := getEnvAsDuration("DB_SLOW_QUERY", 200*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	exportInterval, err := getEnvAsDuration("METRICS_EXPORT_INTERVAL", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:4200,http://localhost:3000")),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            dbPort,
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        os.Getenv("POSTGRES_PASSWORD"),
			Name:            getEnv("POSTGRES_DB", "storefront"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: connLifetime,
			SlowQuery:       slowQuery,
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			AccessTokenTTL: time.Duration(ttlMinutes) * time.Minute,
			BcryptCost:     bcryptCost,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled:        metricsEnabled,
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "storefront"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure:   otlpInsecure,
			ExportInterval: exportInterval,
		},
		Upload: UploadConfig{
			MaxImageBytes: int64(maxImage),
		},
		GoEnv: getEnv("GO_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql, got %q", c.Database.Driver)
	}
	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or POSTGRES_HOST is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.Upload.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.OTLPEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when metrics are enabled")
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	if strings.HasPrefix(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getEnvAsBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be boolean: %w", key, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
