package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	AvatarBackendLocal = "local"
	AvatarBackendS3    = "s3"
)

type Config struct {
	AppPort          string `env:"PORT" env-default:"3000"`
	AppMode          string `env:"APP_MODE" env-default:"debug"`
	DocumentStoreURL string `env:"DOCUMENT_STORE_URL" env-default:"redis://localhost:6379/0"`

	UploadDir      string `env:"UPLOAD_DIR" env-default:"uploads"`
	AvatarBackend  string `env:"AVATAR_BACKEND" env-default:"local"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" env-default:"8388608"`

	S3Region     string        `env:"S3_REGION"`
	S3Bucket     string        `env:"S3_BUCKET"`
	S3AccessKey  string        `env:"S3_ACCESS_KEY"`
	S3SecretKey  string        `env:"S3_SECRET_KEY"`
	S3Endpoint   string        `env:"S3_ENDPOINT"`
	S3PresignTTL time.Duration `env:"S3_PRESIGN_TTL" env-default:"15m"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	WriteRateLimit     int    `env:"WRITE_RATE_LIMIT" env-default:"0"`

	UIPort           string `env:"UI_PORT" env-default:"8081"`
	RecordServiceURL string `env:"RECORD_SERVICE_URL" env-default:"http://localhost:3000"`
	UIPageLimit      int    `env:"UI_PAGE_LIMIT" env-default:"4"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.AvatarBackend {
	case AvatarBackendLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the local avatar backend")
		}
	case AvatarBackendS3:
		if c.S3Region == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_REGION and S3_BUCKET are required for the s3 avatar backend")
		}
	default:
		return fmt.Errorf("unknown AVATAR_BACKEND %q", c.AvatarBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.WriteRateLimit < 0 {
		return fmt.Errorf("WRITE_RATE_LIMIT must not be negative")
	}
	if c.UIPageLimit < 1 {
		return fmt.Errorf("UI_PAGE_LIMIT must be at least 1")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
