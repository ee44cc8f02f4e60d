package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store drivers
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

// Upload drivers
const (
	UploadDriverLocal = "local"
	UploadDriverMinIO = "minio"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables
type Config struct {
	App    AppConfig
	JWT    JWTConfig
	Store  StoreConfig
	Redis  RedisConfig
	Upload UploadConfig
	MinIO  MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string // empty → reflect the request origin
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // minutes
}

// AccessTTL returns the access token lifetime
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiry) * time.Minute
}

// StoreConfig selects where the post document lives
type StoreConfig struct {
	Driver string // file, memory, redis, postgres
	Path   string // file driver: JSON document path
	Key    string // redis key or postgres document name, empty → driver default
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type UploadConfig struct {
	Driver            string // local, minio
	Dir               string // local driver root
	PublicPrefix      string // URL prefix for local files
	MaxBytes          int64  // inline image limit
	CoverMaxDimension int    // longest side of stored covers, in pixels
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // optional, defaults to <endpoint>/<bucket>
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ngPodium API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "3000"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: getEnvList("CORS_ORIGINS"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY", 24*60),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverFile)),
			Path:   getEnv("STORE_PATH", "data/posts.json"),
			Key:    getEnv("STORE_KEY", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Upload: UploadConfig{
			Driver:            strings.ToLower(getEnv("UPLOAD_DRIVER", UploadDriverLocal)),
			Dir:               getEnv("UPLOAD_DIR", "uploads"),
			PublicPrefix:      getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads"),
			MaxBytes:          int64(getEnvInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
			CoverMaxDimension: getEnvInt("UPLOAD_COVER_MAX_DIMENSION", 1600),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "ngpodium"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	err := validation.Errors{
		"STORE_DRIVER": validation.Validate(c.Store.Driver,
			validation.Required,
			validation.In(StoreDriverFile, StoreDriverMemory, StoreDriverRedis, StoreDriverPostgres),
		),
		"STORE_PATH": validation.Validate(c.Store.Path,
			validation.When(c.Store.Driver == StoreDriverFile, validation.Required),
		),
		"UPLOAD_DRIVER": validation.Validate(c.Upload.Driver,
			validation.Required,
			validation.In(UploadDriverLocal, UploadDriverMinIO),
		),
		"UPLOAD_MAX_BYTES": validation.Validate(c.Upload.MaxBytes,
			validation.Required,
			validation.Min(int64(1)),
		),
		"JWT_ACCESS_EXPIRY": validation.Validate(c.JWT.AccessTokenExpiry,
			validation.Required,
			validation.Min(1),
		),
		"MINIO_BUCKET": validation.Validate(c.MinIO.Bucket,
			validation.When(c.Upload.Driver == UploadDriverMinIO, validation.Required),
		),
	}.Filter()
	if err != nil {
		return err
	}

	// Production must not run with the default secret
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret || c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Store.Driver == StoreDriverMemory {
			return fmt.Errorf("STORE_DRIVER=memory loses every post on restart, not allowed in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
