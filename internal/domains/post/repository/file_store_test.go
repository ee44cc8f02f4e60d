package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
)

func TestFileStore_ReadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "data", "posts.db.json"))

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Posts)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestFileStore_WriteCreatesDirectoryAndReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "posts.db.json")
	store := NewFileStore(path)
	ctx := context.Background()

	doc := &Document{Posts: []model.Post{{
		ID:        1,
		Header:    "Go Concurrency",
		Slug:      "go-concurrency",
		Tags:      []string{"go"},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}}
	require.NoError(t, store.Write(ctx, doc))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "go-concurrency", got.Posts[0].Slug)
	assert.Equal(t, int64(2), got.NextID)
	assert.Equal(t, path, store.Path())
}

func TestFileStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "posts.db.json"))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Write(ctx, &Document{Posts: []model.Post{{ID: int64(i)}}}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "posts.db.json", entries[0].Name())
}

func TestFileStore_ReadsLegacyBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.db.json")
	legacy := `[{"id": 3, "header": "Legacy", "slug": "legacy", "createdAt": "2023-09-09T09:09:09.000Z", "tags": [], "userId": 1, "userName": "abdo"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	doc, err := NewFileStore(path).Read(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Posts, 1)
	assert.Equal(t, "Legacy", doc.Posts[0].Header)
	assert.Equal(t, int64(4), doc.NextID)
}

func TestFileStore_ReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"posts": [{"id": 1,`), 0o644))

	_, err := NewFileStore(path).Read(context.Background())
	assert.ErrorIs(t, err, ErrStorageDegraded)
}

func TestFileStore_CancelledContext(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "posts.db.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Write(ctx, &Document{}), context.Canceled)
}

func TestFileStore_PingFailsWhenParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileStore(filepath.Join(blocker, "posts.db.json"))
	assert.Error(t, store.Ping(context.Background()))
}
