package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodePostNotFound    = "POST001"
	ErrCodeNotOwner        = "POST002"
	ErrCodeInvalidPost     = "POST003"
	ErrCodeStorageDegraded = "POST004"
	ErrCodeStorageFailure  = "POST005"
	ErrCodeInvalidUpload   = "POST006"
	ErrCodeUploadTooLarge  = "POST007"
	ErrCodeMissingUpload   = "POST008"
)

// Errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotOwner        = errors.New("not allowed")
	ErrInvalidPost     = errors.New("invalid post")
	ErrStorageDegraded = errors.New("post storage is unreadable")
	ErrStorageFailure  = errors.New("post storage failure")
	ErrInvalidUpload   = errors.New("invalid upload")
	ErrUploadTooLarge  = errors.New("upload too large")
	ErrMissingUpload   = errors.New("no file uploaded")
)

// PostError carries an API error code alongside the underlying sentinel.
type PostError struct {
	Code    string
	Message string
	Err     error
}

func (e *PostError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewPostNotFoundError() *PostError {
	return &PostError{
		Code:    ErrCodePostNotFound,
		Message: "Post not found",
		Err:     ErrPostNotFound,
	}
}

func NewNotOwnerError() *PostError {
	return &PostError{
		Code:    ErrCodeNotOwner,
		Message: "Not allowed",
		Err:     ErrNotOwner,
	}
}

func NewInvalidPostError(reason string) *PostError {
	return &PostError{
		Code:    ErrCodeInvalidPost,
		Message: reason,
		Err:     ErrInvalidPost,
	}
}

func NewStorageDegradedError(cause error) *PostError {
	return &PostError{
		Code:    ErrCodeStorageDegraded,
		Message: "Post storage is unreadable, refusing to overwrite it",
		Err:     errors.Join(ErrStorageDegraded, cause),
	}
}

func NewStorageFailureError(cause error) *PostError {
	return &PostError{
		Code:    ErrCodeStorageFailure,
		Message: "Post storage failure",
		Err:     errors.Join(ErrStorageFailure, cause),
	}
}

func NewInvalidUploadError(reason string) *PostError {
	return &PostError{
		Code:    ErrCodeInvalidUpload,
		Message: reason,
		Err:     ErrInvalidUpload,
	}
}

func NewUploadTooLargeError(limit int64) *PostError {
	return &PostError{
		Code:    ErrCodeUploadTooLarge,
		Message: fmt.Sprintf("File exceeds the %d byte limit", limit),
		Err:     ErrUploadTooLarge,
	}
}

func NewMissingUploadError() *PostError {
	return &PostError{
		Code:    ErrCodeMissingUpload,
		Message: "No file uploaded",
		Err:     ErrMissingUpload,
	}
}
