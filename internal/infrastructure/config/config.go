package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration. Field tags name the TOML keys;
// the same keys are read from POKEDEX_-prefixed environment variables with
// dots replaced by underscores.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	GraphQL   GraphQLConfig   `mapstructure:"graphql"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// IsProduction reports whether the stricter production checks apply
func (a *AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN renders a postgres URL with user, password and database escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig points at the server shared by the token blacklist and the
// lookup cache.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	RateLimitEnabled bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRPS     float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst   int           `mapstructure:"rate_limit_burst"`
	// An empty origin list blocks cross-origin requests.
	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string `mapstructure:"trusted_proxies"`
}

type GraphQLConfig struct {
	Path       string `mapstructure:"path"`
	MaxDepth   int    `mapstructure:"max_depth"`
	Playground bool   `mapstructure:"playground"` // GraphiQL on a GET without a query
}

// CacheConfig controls the single-entry pokemon(name:) cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // OTLP gRPC, host:port
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"` // defaults to app.name
	Insecure          bool    `mapstructure:"insecure"`
	LogsEnabled       bool    `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool    `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool    `mapstructure:"db_log_full_sql"`
}

type ProfilingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address"`
	SpanProfiles  bool   `mapstructure:"span_profiles"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// StorageConfig is an S3-compatible bucket for sprite mirroring
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

// Configured reports whether there is a bucket and credentials to use
func (s StorageConfig) Configured() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type SeedConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Limit           int           `mapstructure:"limit"`
	RequestInterval time.Duration `mapstructure:"request_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Concurrency     int           `mapstructure:"concurrency"`
}

// defaults lists every key Load knows about. A key missing here is not
// picked up from the environment.
var defaults = map[string]any{
	"app.name": "pokedex-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "pokedex",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":     "",
	"jwt.expiration": 7 * 24 * time.Hour,
	"jwt.issuer":     "pokedex-backend",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      15 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      1 << 20,
	"http.rate_limit_enabled": false,
	"http.rate_limit_rps":     10.0,
	"http.rate_limit_burst":   20,
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":    []string{},

	"graphql.path":       "/api/graphql",
	"graphql.max_depth":  10,
	"graphql.playground": false,

	"cache.enabled": false,
	"cache.ttl":     10 * time.Minute,

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "",
	"telemetry.insecure":           false,
	"telemetry.logs_enabled":       false,
	"telemetry.db_trace_enabled":   false,
	"telemetry.db_log_full_sql":    false,

	"profiling.enabled":        false,
	"profiling.server_address": "http://localhost:4040",
	"profiling.span_profiles":  false,

	"metrics.enabled": false,
	"metrics.path":    "/metrics",

	"storage.endpoint":   "",
	"storage.bucket":     "",
	"storage.access_key": "",
	"storage.secret_key": "",
	"storage.region":     "us-east-1",
	"storage.use_ssl":    false,
	"storage.public_url": "",

	"seed.base_url":         "https://pokeapi.co/api/v2",
	"seed.limit":            151,
	"seed.request_interval": 150 * time.Millisecond,
	"seed.timeout":          30 * time.Second,
	"seed.concurrency":      1,
}

// Load reads config.toml from ., ./config or /app if one exists, overlays
// POKEDEX_* environment variables and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/app"} {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("POKEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	db := c.Database
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	check(c.Seed.Limit >= 0, "seed.limit cannot be negative")
	check(c.GraphQL.MaxDepth >= 0, "graphql.max_depth cannot be negative")

	if c.App.IsProduction() {
		check(len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"), "http.cors_allow_origins cannot contain '*' in production")
		check(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks that token signing is possible. Only the API server needs
// a secret, so this is not part of Load.
func (j *JWTConfig) Validate() error {
	if j.Secret == "" {
		return fmt.Errorf("jwt.secret is required (set POKEDEX_JWT_SECRET)")
	}
	if j.Expiration <= 0 {
		return fmt.Errorf("jwt.expiration must be positive")
	}
	return nil
}
