package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads .env (if present) into the process environment and then
// overlays every recognised variable onto cfg.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	str := map[string]*string{
		"HTTP_ADDR":               &cfg.HTTPAddr,
		"DATABASE_URL":            &cfg.DatabaseDSN,
		"SESSION_SECRET":          &cfg.SessionSecret,
		"REDIS_ADDR":              &cfg.RedisAddr,
		"REDIS_PASSWORD":          &cfg.RedisPassword,
		"ASSET_BACKEND":           &cfg.AssetBackend,
		"UPLOAD_DIR":              &cfg.UploadDir,
		"S3_ACCESS_KEY":           &cfg.S3AccessKey,
		"S3_SECRET_KEY":           &cfg.S3SecretKey,
		"S3_BUCKET":               &cfg.S3Bucket,
		"S3_REGION":               &cfg.S3Region,
		"S3_BASE_ENDPOINT":        &cfg.S3BaseEndpoint,
		"ADZUNA_APP_ID":           &cfg.AdzunaAppID,
		"ADZUNA_API_KEY":          &cfg.AdzunaAPIKey,
		"ADZUNA_BASE_URL":         &cfg.AdzunaBaseURL,
		"ADZUNA_DEFAULT_LOCATION": &cfg.AdzunaDefaultLocation,
		"GEMINI_API_KEY":          &cfg.GeminiAPIKey,
		"GEMINI_MODEL":            &cfg.GeminiModel,
		"SENTRY_DSN":              &cfg.SentryDSN,
		"SENTRY_ENVIRONMENT":      &cfg.SentryEnvironment,
		"LOG_FILE":                &cfg.LogFile,
		"LOG_LEVEL":               &cfg.LogLevel,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	var err error
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		if cfg.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
	}
	if v, ok := os.LookupEnv("KEEP_REPLACED_IMAGES"); ok {
		if cfg.KeepReplacedImages, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("KEEP_REPLACED_IMAGES: %w", err)
		}
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
	}

	durations := map[string]*time.Duration{
		"SESSION_TTL":    &cfg.SessionTTL,
		"REMEMBER_TTL":   &cfg.RememberTTL,
		"ADZUNA_TIMEOUT": &cfg.AdzunaTimeout,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			if *dst, err = time.ParseDuration(v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	floats := map[string]*float64{
		"ADZUNA_DEFAULT_LAT": &cfg.AdzunaDefaultLat,
		"ADZUNA_DEFAULT_LON": &cfg.AdzunaDefaultLon,
	}
	for key, dst := range floats {
		if v, ok := os.LookupEnv(key); ok {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
