package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey holds the post document when no key is configured.
const DefaultRedisKey = "ngpodium:posts"

// RedisStore keeps the post document under a single Redis key.
// GET and SET are atomic per command, so readers see whole documents.
// Mutate uses WATCH/MULTI when the client supports it, so a concurrent
// writer in another process forces a retry instead of a lost update.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// maxWatchRetries bounds optimistic retries when the key keeps changing.
const maxWatchRetries = 10

// ErrWriteContention is returned when Mutate loses every optimistic retry.
var ErrWriteContention = errors.New("post document changed concurrently")

// Ensure RedisStore implements DocumentStore and Mutator.
var (
	_ DocumentStore = (*RedisStore)(nil)
	_ Mutator       = (*RedisStore)(nil)
)

// watcher is the part of *redis.Client that runs optimistic transactions.
type watcher interface {
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Read(ctx context.Context) (*Document, error) {
	return s.read(ctx, s.client)
}

func (s *RedisStore) read(ctx context.Context, c getter) (*Document, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return DecodeDocument(nil)
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return DecodeDocument(data)
}

func (s *RedisStore) Write(ctx context.Context, doc *Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode post document: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Mutate reads, applies fn and writes the document back. With a client
// that supports WATCH the SET only lands if the key is unchanged since the
// read; otherwise the whole cycle is retried.
func (s *RedisStore) Mutate(ctx context.Context, fn func(doc *Document) error) error {
	w, ok := s.client.(watcher)
	if !ok {
		doc, err := s.Read(ctx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.Write(ctx, doc)
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := w.Watch(ctx, func(tx *redis.Tx) error {
			doc, err := s.read(ctx, tx)
			if err != nil {
				return err
			}
			if err := fn(doc); err != nil {
				return err
			}
			data, err := EncodeDocument(doc)
			if err != nil {
				return fmt.Errorf("encode post document: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, s.key, data, 0)
				return nil
			})
			return err
		}, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("redis set %s: %w", s.key, ErrWriteContention)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
