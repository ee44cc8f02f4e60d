package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/config"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/container"
)

func newTestContainer(t *testing.T, driver string) *container.Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		App:   config.AppConfig{Name: "ngPodium API", Environment: "test", Version: "test"},
		JWT:   config.JWTConfig{Secret: "secret", AccessTokenExpiry: 60},
		Store: config.StoreConfig{Driver: driver, Path: filepath.Join(dir, "data", "posts.json")},
		Upload: config.UploadConfig{
			Driver:       config.UploadDriverLocal,
			Dir:          filepath.Join(dir, "uploads"),
			PublicPrefix: "/uploads",
			MaxBytes:     1 << 20,
		},
	}
	require.NoError(t, cfg.Validate())

	c, err := container.NewContainerWithConfig(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)
	return c
}

func TestHealth(t *testing.T) {
	router := SetupRouter(newTestContainer(t, config.StoreDriverMemory))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Data["status"])
	assert.Equal(t, config.StoreDriverMemory, body.Data["store"])
}

func TestHealth_FileStoreBlockedDirectory(t *testing.T) {
	c := newTestContainer(t, config.StoreDriverFile)

	// A file where the data directory should be
	require.NoError(t, os.WriteFile(filepath.Dir(c.Config.Store.Path), []byte("x"), 0o644))

	w := httptest.NewRecorder()
	SetupRouter(c).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoutes_PublicAndProtected(t *testing.T) {
	c := newTestContainer(t, config.StoreDriverFile)
	router := SetupRouter(c)

	for _, path := range []string{"/api/v1/posts", "/api/v1/posts/count", "/api/v1/posts/search/query?q=go"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts/unknown-slug", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaticUploads(t *testing.T) {
	c := newTestContainer(t, config.StoreDriverMemory)
	require.NotNil(t, c.LocalUploads)

	_, err := c.LocalUploads.Upload(t.Context(), "covers/a.txt", []byte("hello"), "text/plain")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	SetupRouter(c).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/covers/a.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	router := SetupRouter(newTestContainer(t, config.StoreDriverMemory))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
