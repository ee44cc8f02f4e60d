package storage

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid object key")

// Uploader stores uploaded files and returns the reference clients use to
// fetch them. The reference is saved verbatim in a post's coverImg.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
