package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
)

// ErrStorageDegraded marks a persisted document that exists but cannot be parsed.
var ErrStorageDegraded = model.ErrStorageDegraded

// DecodeDocument parses a persisted post document.
//
// Accepted layouts:
//   - empty or whitespace-only payload → empty document
//   - bare array of posts
//   - object with the array under "posts" (and optionally "nextId")
//
// Any other JSON value decodes to an empty document. Invalid syntax or
// mistyped records return ErrStorageDegraded.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	doc := &Document{Posts: []model.Post{}}
	if len(trimmed) == 0 {
		doc.normalizeNextID()
		return doc, nil
	}

	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid json", ErrStorageDegraded)
	}

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &doc.Posts); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageDegraded, err)
		}
	case '{':
		var wrapper struct {
			Posts  json.RawMessage `json:"posts"`
			NextID int64           `json:"nextId"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageDegraded, err)
		}
		posts := bytes.TrimSpace(wrapper.Posts)
		if len(posts) > 0 && posts[0] == '[' {
			if err := json.Unmarshal(posts, &doc.Posts); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorageDegraded, err)
			}
		}
		doc.NextID = wrapper.NextID
	}

	if doc.Posts == nil {
		doc.Posts = []model.Post{}
	}
	doc.normalizeNextID()
	return doc, nil
}

// EncodeDocument serializes a document in the wrapped layout.
func EncodeDocument(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	out := *doc
	if out.Posts == nil {
		out.Posts = []model.Post{}
	}
	out.normalizeNextID()
	return json.MarshalIndent(&out, "", "  ")
}
