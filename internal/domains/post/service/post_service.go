package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/ranking"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/repository"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/utils"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/logger"
)

// postService implements ServiceInterface on top of a DocumentStore.
//
// Every mutation runs read → modify → write under writeMu, which makes the
// service the single writer of its collection inside one process. Stores
// implementing repository.Mutator also lock the document in the backing
// storage, which extends that to several processes. Queries skip the lock;
// stores publish whole documents atomically.
type postService struct {
	store   repository.DocumentStore
	now     func() time.Time
	writeMu sync.Mutex
}

// Option customizes a post service
type Option func(*postService)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *postService) {
		s.now = now
	}
}

func NewPostService(store repository.DocumentStore, opts ...Option) ServiceInterface {
	s := &postService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =====================================================
// QUERIES
// =====================================================

func (s *postService) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = model.DefaultLimit
	}
	if offset < 0 {
		offset = model.DefaultOffset
	}

	posts, err := s.readForQuery(ctx)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b model.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(sorted) {
		return []model.Post{}, nil
	}
	end := min(offset+limit, len(sorted))
	return sorted[offset:end], nil
}

func (s *postService) Count(ctx context.Context) (int, error) {
	posts, err := s.readForQuery(ctx)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	posts, err := s.readForQuery(ctx)
	if err != nil {
		return nil, err
	}

	var found *model.Post
	matches := 0
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if found == nil {
			found = &posts[i]
		}
		matches++
	}
	if found == nil {
		return nil, model.NewPostNotFoundError()
	}
	if matches > 1 {
		// Slugs are not unique; the first stored post wins
		logger.Debug("slug shared by several posts", map[string]interface{}{
			"slug":    slug,
			"matches": matches,
			"post_id": found.ID,
		})
	}

	post := found.Clone()
	return &post, nil
}

func (s *postService) Search(ctx context.Context, query string, limit int) ([]model.Post, error) {
	posts, err := s.readForQuery(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Search(query, posts, limit), nil
}

// =====================================================
// MUTATIONS
// =====================================================

func (s *postService) Create(ctx context.Context, req model.CreatePostRequest, owner model.Owner) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidPostError(err.Error())
	}

	var post model.Post
	err := s.mutate(ctx, func(doc *repository.Document) error {
		id := doc.AllocateID()

		source := req.Header
		if req.Slug != "" {
			source = req.Slug
		}
		slug := utils.Slugify(source)
		if slug == "" {
			slug = fmt.Sprintf("post-%d", id)
		}

		tags := make([]string, len(req.Tags))
		copy(tags, req.Tags)

		post = model.Post{
			ID:        id,
			Header:    req.Header,
			Content:   req.Content,
			CoverImg:  req.CoverImg,
			CreatedAt: s.now(),
			Tags:      tags,
			Slug:      slug,
			UserID:    owner.ID,
			UserName:  owner.Username,
			UserImg:   owner.AvatarRef,
		}
		doc.Posts = append(doc.Posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("post created", map[string]interface{}{
		"post_id": post.ID,
		"slug":    post.Slug,
		"user_id": owner.ID,
	})

	created := post.Clone()
	return &created, nil
}

func (s *postService) Update(ctx context.Context, id int64, req model.UpdatePostRequest, owner model.Owner) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidPostError(err.Error())
	}

	var updated model.Post
	err := s.mutate(ctx, func(doc *repository.Document) error {
		idx := doc.IndexOf(id)
		if idx == -1 {
			return model.NewPostNotFoundError()
		}
		if !doc.Posts[idx].OwnedBy(owner) {
			return model.NewNotOwnerError()
		}

		updated = doc.Posts[idx].Clone()
		req.ApplyTo(&updated)

		// The slug only changes when a new one is sent explicitly;
		// a new header keeps the old slug.
		if req.Slug != nil && *req.Slug != "" {
			slug := utils.Slugify(*req.Slug)
			if slug == "" {
				return model.NewInvalidPostError("slug must contain at least one letter or digit")
			}
			updated.Slug = slug
		}

		now := s.now()
		updated.UpdatedAt = &now
		doc.Posts[idx] = updated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("post updated", map[string]interface{}{
		"post_id": id,
		"user_id": owner.ID,
	})

	return &updated, nil
}

func (s *postService) Remove(ctx context.Context, id int64, owner model.Owner) error {
	err := s.mutate(ctx, func(doc *repository.Document) error {
		idx := doc.IndexOf(id)
		if idx == -1 {
			return model.NewPostNotFoundError()
		}
		if !doc.Posts[idx].OwnedBy(owner) {
			return model.NewNotOwnerError()
		}

		doc.Posts = slices.Delete(doc.Posts, idx, idx+1)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("post removed", map[string]interface{}{
		"post_id": id,
		"user_id": owner.ID,
	})
	return nil
}

func (s *postService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// =====================================================
// HELPERS
// =====================================================

// readForQuery loads the posts for a read-only operation. An unreadable
// document is reported in the log and answered as an empty collection.
func (s *postService) readForQuery(ctx context.Context) ([]model.Post, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrStorageDegraded) {
			logger.Warn("post document unreadable, serving empty collection", err, nil)
			return []model.Post{}, nil
		}
		return nil, model.NewStorageFailureError(err)
	}
	return doc.Posts, nil
}

// mutate applies fn to the current document and persists the result.
// An unreadable document fails the mutation so it is never overwritten.
func (s *postService) mutate(ctx context.Context, fn func(doc *repository.Document) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if m, ok := s.store.(repository.Mutator); ok {
		return mutationError(m.Mutate(ctx, fn))
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		return mutationError(err)
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.store.Write(ctx, doc); err != nil {
		return model.NewStorageFailureError(err)
	}
	return nil
}

// mutationError passes domain errors through and classifies storage ones.
func mutationError(err error) error {
	if err == nil {
		return nil
	}

	var postErr *model.PostError
	if errors.As(err, &postErr) {
		return err
	}
	if errors.Is(err, repository.ErrStorageDegraded) {
		logger.Error("post document unreadable, mutation rejected", err)
		return model.NewStorageDegradedError(err)
	}
	return model.NewStorageFailureError(err)
}
