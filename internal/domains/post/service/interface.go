package service

import (
	"context"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
)

// =====================================================
// POST SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// QUERIES
	// ========================================

	// List returns posts newest first, sliced [offset, offset+limit).
	// limit <= 0 falls back to 5, offset < 0 to 0.
	List(ctx context.Context, limit, offset int) ([]model.Post, error)

	// Count returns the number of stored posts
	Count(ctx context.Context) (int, error)

	// GetBySlug returns the first post carrying slug
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)

	// Search returns ranked matches for a free-text query
	Search(ctx context.Context, query string, limit int) ([]model.Post, error)

	// ========================================
	// MUTATIONS (owner only)
	// ========================================

	// Create stores a new post owned by owner
	Create(ctx context.Context, req model.CreatePostRequest, owner model.Owner) (*model.Post, error)

	// Update merges the supplied fields into the owner's post
	Update(ctx context.Context, id int64, req model.UpdatePostRequest, owner model.Owner) (*model.Post, error)

	// Remove deletes the owner's post
	Remove(ctx context.Context, id int64, owner model.Owner) error

	// Ping reports whether the post storage is reachable
	Ping(ctx context.Context) error
}
