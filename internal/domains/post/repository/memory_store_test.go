package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
)

func TestMemoryStore_StartsEmpty(t *testing.T) {
	doc, err := NewMemoryStore().Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Posts)
	assert.Equal(t, int64(1), doc.NextID)
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc := &Document{Posts: []model.Post{{ID: 1, Header: "Original", Tags: []string{"go"}}}}
	require.NoError(t, store.Write(ctx, doc))

	// Mutating the written document must not leak into the store
	doc.Posts[0].Header = "Mutated"
	doc.Posts[0].Tags[0] = "rust"

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Posts[0].Header)
	assert.Equal(t, []string{"go"}, got.Posts[0].Tags)

	// Mutating a read copy must not leak either
	got.Posts[0].Header = "Changed"
	again, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Posts[0].Header)
}

func TestMemoryStore_ConcurrentReadersSeeWholeDocuments(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			posts := make([]model.Post, n)
			for j := range posts {
				posts[j] = model.Post{ID: int64(j + 1)}
			}
			assert.NoError(t, store.Write(ctx, &Document{Posts: posts}))
		}(i)
		go func() {
			defer wg.Done()
			doc, err := store.Read(ctx)
			assert.NoError(t, err)
			// Every published document is dense 1..n
			for j, p := range doc.Posts {
				assert.Equal(t, int64(j+1), p.ID)
			}
		}()
	}
	wg.Wait()
}
