package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Service names, also used as config file names and default app names
const (
	ServiceCustomer = "customer-service"
	ServiceProduct  = "product-service"
	ServiceIAM      = "iam-service"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// defaultInsecureKey is the development-only obfuscation key
const defaultInsecureKey = "1234567890123456"

// Config holds all configuration for one service.
// It is built once by Load and passed down explicitly; treat it as read-only.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Peers       PeersConfig
	Outbound    OutboundConfig
	Obfuscation ObfuscationConfig
	Telemetry   TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	SlowThreshold   time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// AuthConfig controls bearer token enforcement on the resource services
type AuthConfig struct {
	RequireToken bool
	// Sign-up and sign-in attempts allowed per client IP within SignInWindow; 0 disables throttling
	SignInLimit  int
	SignInWindow time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// PeersConfig holds the base URLs of the services this one calls
type PeersConfig struct {
	CustomerServiceURL string
	ProductServiceURL  string
}

// OutboundConfig holds the call policies used against peer services
type OutboundConfig struct {
	ExistsTimeout  time.Duration
	FetchTimeout   time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBodyBytes   int64
}

// ObfuscationConfig holds the key used to encode public client codes
type ObfuscationConfig struct {
	Key string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          // Whether to export traces
	CollectorEndpoint string        // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64       // Sampling ratio (0.0-1.0, 1.0 = 100%)
	Insecure          bool          // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool          // Whether to export metrics
	MetricsInterval   time.Duration // Metrics export interval
	LogsEnabled       bool          // Whether to also ship zap logs to the collector
}

// Load loads the configuration of one service from TOML and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with FIN_ prefix (e.g., FIN_DATABASE_PASSWORD), including a .env file
// 2. <service>.toml, then config.toml
// 3. Built-in defaults
func Load(service string) (*Config, error) {
	// A missing .env file is fine; real environment variables still win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	for _, name := range []string{service, "config"} {
		v.SetConfigName(name)
		err := v.ReadInConfig()
		if err == nil {
			break
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
		Auth: AuthConfig{
			RequireToken: v.GetBool("auth.require_token"),
			SignInLimit:  v.GetInt("auth.sign_in_limit"),
			SignInWindow: v.GetDuration("auth.sign_in_window"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Peers: PeersConfig{
			CustomerServiceURL: v.GetString("peers.customer_service_url"),
			ProductServiceURL:  v.GetString("peers.product_service_url"),
		},
		Outbound: OutboundConfig{
			ExistsTimeout:  v.GetDuration("outbound.exists_timeout"),
			FetchTimeout:   v.GetDuration("outbound.fetch_timeout"),
			MaxRetries:     v.GetInt("outbound.max_retries"),
			InitialBackoff: v.GetDuration("outbound.initial_backoff"),
			MaxBodyBytes:   v.GetInt64("outbound.max_body_bytes"),
		},
		Obfuscation: ObfuscationConfig{
			Key: v.GetString("obfuscation.key"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
	}

	// max_retries = 0 is a legitimate setting, so only default it when absent
	if !v.IsSet("outbound.max_retries") {
		cfg.Outbound.MaxRetries = -1
	}

	applyDefaults(cfg, service)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultPorts are the service ports of a local deployment
var defaultPorts = map[string]string{
	ServiceCustomer: "8030",
	ServiceProduct:  "8020",
	ServiceIAM:      "8050",
}

// defaultDBNames keep each service in its own database
var defaultDBNames = map[string]string{
	ServiceCustomer: "customers",
	ServiceProduct:  "products",
	ServiceIAM:      "iam",
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config, service string) {
	if cfg.App.Name == "" {
		cfg.App.Name = service
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = defaultPorts[service]
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = defaultDBNames[service]
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "finsuite"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = cfg.Database.DBName + ".db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Secret == "" && cfg.App.Env != "production" {
		cfg.JWT.Secret = "development-only-jwt-secret-change-me"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "finsuite-iam"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// Must outlast an enrichment fetch with all its retries
		cfg.HTTP.WriteTimeout = 45 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 && cfg.App.Env == "development" {
		cfg.HTTP.CORSAllowOrigins = []string{"http://localhost:4200", "http://localhost:3000", "http://localhost:8010"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Peers.CustomerServiceURL == "" {
		cfg.Peers.CustomerServiceURL = "http://localhost:8010/customer-service"
	}
	if cfg.Peers.ProductServiceURL == "" {
		cfg.Peers.ProductServiceURL = "http://localhost:8010/product-service"
	}
	if cfg.Outbound.ExistsTimeout == 0 {
		cfg.Outbound.ExistsTimeout = 5 * time.Second
	}
	if cfg.Outbound.FetchTimeout == 0 {
		cfg.Outbound.FetchTimeout = 10 * time.Second
	}
	if cfg.Outbound.MaxRetries < 0 {
		cfg.Outbound.MaxRetries = 2
	}
	if cfg.Outbound.InitialBackoff == 0 {
		cfg.Outbound.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.Outbound.MaxBodyBytes == 0 {
		cfg.Outbound.MaxBodyBytes = 1 << 20 // 1MB
	}
	if cfg.Obfuscation.Key == "" {
		cfg.Obfuscation.Key = defaultInsecureKey
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Auth.SignInWindow == 0 {
		cfg.Auth.SignInWindow = time.Minute
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch len(c.Obfuscation.Key) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("obfuscation.key must be 16, 24 or 32 bytes, got %d", len(c.Obfuscation.Key))
	}

	if c.Outbound.MaxRetries > 10 {
		return fmt.Errorf("outbound.max_retries cannot exceed 10, got %d", c.Outbound.MaxRetries)
	}

	for name, raw := range map[string]string{
		"peers.customer_service_url": c.Peers.CustomerServiceURL,
		"peers.product_service_url":  c.Peers.ProductServiceURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Obfuscation.Key == defaultInsecureKey {
			return fmt.Errorf("obfuscation.key must be changed from the development default in production")
		}
		if c.Database.Driver == DriverPostgres {
			if c.Database.Password == "" {
				return fmt.Errorf("database.password is required in production")
			}
			if c.Database.SSLMode == "disable" {
				return fmt.Errorf("database.sslmode cannot be 'disable' in production")
			}
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Address returns the host:port the Redis client dials
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction reports whether the service runs in production
func (a *AppConfig) IsProduction() bool {
	return a.Env == "production"
}
