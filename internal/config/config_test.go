package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "STORE_DRIVER", "STORE_PATH", "UPLOAD_DRIVER", "UPLOAD_MAX_BYTES", "JWT_SECRET", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "data/posts.json", cfg.Store.Path)
	assert.Equal(t, UploadDriverLocal, cfg.Upload.Driver)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL())
	assert.Empty(t, cfg.App.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("STORE_KEY", "blog:posts")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200, ,https://ngpodium.dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "blog:posts", cfg.Store.Key)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, []string{"http://localhost:4200", "https://ngpodium.dev"}, cfg.App.CORSOrigins)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "three")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.MinIO.UseSSL)
}

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		JWT:    JWTConfig{Secret: defaultJWTSecret, AccessTokenExpiry: 60},
		Store:  StoreConfig{Driver: StoreDriverFile, Path: "posts.json"},
		Upload: UploadConfig{Driver: UploadDriverLocal, MaxBytes: 1024},
		MinIO:  MinIOConfig{Bucket: "ngpodium"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown store driver", func(c *Config) { c.Store.Driver = "sqlite" }, "STORE_DRIVER"},
		{"file driver without path", func(c *Config) { c.Store.Path = "" }, "STORE_PATH"},
		{"memory driver without path", func(c *Config) { c.Store.Driver = StoreDriverMemory; c.Store.Path = "" }, ""},
		{"unknown upload driver", func(c *Config) { c.Upload.Driver = "s3" }, "UPLOAD_DRIVER"},
		{"zero upload limit", func(c *Config) { c.Upload.MaxBytes = 0 }, "UPLOAD_MAX_BYTES"},
		{"negative upload limit", func(c *Config) { c.Upload.MaxBytes = -1 }, "UPLOAD_MAX_BYTES"},
		{"zero token expiry", func(c *Config) { c.JWT.AccessTokenExpiry = 0 }, "JWT_ACCESS_EXPIRY"},
		{"minio without bucket", func(c *Config) { c.Upload.Driver = UploadDriverMinIO; c.MinIO.Bucket = "" }, "MINIO_BUCKET"},
		{"production default secret", func(c *Config) { c.App.Environment = "production" }, "JWT_SECRET"},
		{"production memory store", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = "s3cret"
			c.Store.Driver = StoreDriverMemory
		}, "STORE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)

	t.Setenv("DB_RETRY_DELAY", "soon")
	_, err = LoadDatabaseConfig()
	assert.ErrorContains(t, err, "DB_RETRY_DELAY")
}
