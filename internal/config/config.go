// Package config handles runtime settings for the job board: defaults, an
// optional YAML file, environment variables (including a .env file) and
// command-line flags, applied in that order.
package config

import (
	"time"
)

// Config holds runtime settings for the job board server.
//
// Fields:
//   - HTTPAddr: bind address for the web server.
//   - DatabaseDSN: PostgreSQL DSN used by gorm.
//   - SessionSecret: HMAC secret for signing session cookies (HS256).
//   - SessionTTL / RememberTTL: session lifetime without and with "remember me".
//   - RedisAddr: session store address; empty means an in-process store.
//   - AssetBackend: "local" (UploadDir) or "s3" (S3* settings).
//   - Adzuna*: credentials and presentation fallbacks for the external search.
//   - KeepReplacedImages: keep a user's previous profile image after a replacement.
type Config struct {
	HTTPAddr     string `yaml:"http_addr"`
	DatabaseDSN  string `yaml:"database_dsn"`
	CookieSecure bool   `yaml:"cookie_secure"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	RememberTTL   time.Duration `yaml:"remember_ttl"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	AssetBackend       string `yaml:"asset_backend"`
	UploadDir          string `yaml:"upload_dir"`
	KeepReplacedImages bool   `yaml:"keep_replaced_images"`
	S3AccessKey        string `yaml:"s3_access_key"`
	S3SecretKey        string `yaml:"s3_secret_key"`
	S3Bucket           string `yaml:"s3_bucket"`
	S3Region           string `yaml:"s3_region"`
	S3BaseEndpoint     string `yaml:"s3_base_endpoint"`

	AdzunaAppID           string        `yaml:"adzuna_app_id"`
	AdzunaAPIKey          string        `yaml:"adzuna_api_key"`
	AdzunaBaseURL         string        `yaml:"adzuna_base_url"`
	AdzunaTimeout         time.Duration `yaml:"adzuna_timeout"`
	AdzunaDefaultLocation string        `yaml:"adzuna_default_location"`
	AdzunaDefaultLat      float64       `yaml:"adzuna_default_lat"`
	AdzunaDefaultLon      float64       `yaml:"adzuna_default_lon"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	SentryDSN         string `yaml:"sentry_dsn"`
	SentryEnvironment string `yaml:"sentry_environment"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	CORSOrigins []string `yaml:"cors_origins"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SessionSecret and DatabaseDSN must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = "host=localhost user=postgres password=password dbname=jobboard port=5432 sslmode=disable"
	c.SessionSecret = "dev-session-secret"
	c.SessionTTL = 24 * time.Hour
	c.RememberTTL = 30 * 24 * time.Hour
	c.AssetBackend = "local"
	c.UploadDir = "uploads"
	c.KeepReplacedImages = true
	c.S3Bucket = "jobboard"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.AdzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"
	c.AdzunaTimeout = 10 * time.Second
	c.AdzunaDefaultLocation = "Georgia"
	c.AdzunaDefaultLat = 41.7151
	c.AdzunaDefaultLon = 44.8271
	c.GeminiModel = "gemini-2.5-flash"
	c.SentryEnvironment = "development"
	c.LogFile = "app.log"
	c.LogLevel = "info"
	c.CORSOrigins = []string{"*"}
}

// Load builds a Config from defaults, then the YAML file named by -config,
// then the environment, then the remaining flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fl, err := parseFlags(args)
	if err != nil {
		return nil, err
	}
	if fl.configFile != "" {
		if err := parseYAML(cfg, fl.configFile); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	fl.apply(cfg)
	return cfg, nil
}
