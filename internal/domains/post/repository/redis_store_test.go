package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
)

// fakeRedis answers GET, SET and PING from a map
type fakeRedis struct {
	redis.Cmdable

	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(_ context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

func TestRedisStore_MissingKeyIsEmpty(t *testing.T) {
	store := NewRedisStore(newFakeRedis(), "")

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Posts)
	assert.Equal(t, int64(1), doc.NextID)
}

func TestRedisStore_WriteThenRead(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client, "blog:posts")
	ctx := context.Background()

	doc := &Document{NextID: 3, Posts: []model.Post{{ID: 2, Header: "Hello", Slug: "hello", Tags: []string{}}}}
	require.NoError(t, store.Write(ctx, doc))

	assert.Contains(t, client.values["blog:posts"], `"nextId": 3`)

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "hello", got.Posts[0].Slug)
	assert.Equal(t, int64(3), got.NextID)
}

func TestRedisStore_CorruptValueIsDegraded(t *testing.T) {
	client := newFakeRedis()
	client.values[DefaultRedisKey] = "{broken"

	_, err := NewRedisStore(client, "").Read(context.Background())
	assert.ErrorIs(t, err, ErrStorageDegraded)
}

func TestRedisStore_ConnectionErrors(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	store := NewRedisStore(client, "")
	ctx := context.Background()

	_, err := store.Read(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageDegraded)

	assert.Error(t, store.Write(ctx, &Document{}))
	assert.Error(t, store.Ping(ctx))
}

func TestRedisStore_MutateWithoutWatch(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisStore(client, "")
	ctx := context.Background()

	err := store.Mutate(ctx, func(doc *Document) error {
		doc.Posts = append(doc.Posts, model.Post{ID: doc.AllocateID(), Header: "First", Slug: "first"})
		return nil
	})
	require.NoError(t, err)

	before := client.values[DefaultRedisKey]
	rejected := errors.New("rejected")
	err = store.Mutate(ctx, func(doc *Document) error {
		doc.Posts = nil
		return rejected
	})
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, before, client.values[DefaultRedisKey], "a failed mutation writes nothing")

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, int64(1), got.Posts[0].ID)
	assert.Equal(t, int64(2), got.NextID)
}

func TestRedisStore_MutateRefusesCorruptValue(t *testing.T) {
	client := newFakeRedis()
	client.values[DefaultRedisKey] = "{broken"

	called := false
	err := NewRedisStore(client, "").Mutate(context.Background(), func(*Document) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrStorageDegraded)
	assert.False(t, called)
	assert.Equal(t, "{broken", client.values[DefaultRedisKey])
}
