// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/storage"
)

type Config struct {
	Port        string
	DBPath      string
	LogLevel    string
	LogFormat   string
	SessionTTL  time.Duration
	S3          storage.S3Config
	MediaURLTTL time.Duration
	VAPID       VAPIDConfig
}

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

func (v VAPIDConfig) Enabled() bool {
	return v.PublicKey != "" && v.PrivateKey != ""
}

// Load reads an optional .env file from the working directory, then
// PLANNER_* environment variables. Variables already set in the environment
// take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv("PLANNER_" + key); v != "" {
			return v
		}
		return def
	}
	duration := func(key, def string) (time.Duration, error) {
		raw := get(key, def)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("PLANNER_%s: %w", key, err)
		}
		return d, nil
	}

	cfg := &Config{
		Port:      get("PORT", "8080"),
		DBPath:    get("DB_PATH", "planner.db"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),
		S3: storage.S3Config{
			Endpoint:  get("S3_ENDPOINT", ""),
			Bucket:    get("S3_BUCKET", ""),
			Region:    get("S3_REGION", "us-east-1"),
			AccessKey: get("S3_ACCESS_KEY", ""),
			SecretKey: get("S3_SECRET_KEY", ""),
		},
		VAPID: VAPIDConfig{
			PublicKey:  get("VAPID_PUBLIC_KEY", ""),
			PrivateKey: get("VAPID_PRIVATE_KEY", ""),
			Subject:    get("VAPID_SUBJECT", "mailto:noreply@example.com"),
		},
	}

	var err error
	if cfg.SessionTTL, err = duration("SESSION_TTL", "720h"); err != nil {
		return nil, err
	}
	if cfg.MediaURLTTL, err = duration("MEDIA_URL_TTL", "15m"); err != nil {
		return nil, err
	}
	return cfg, nil
}
