package repository

import (
	"context"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
)

// =====================================================
// POST DOCUMENT STORE INTERFACE
// =====================================================

// DocumentStore persists the whole post collection as one serialized unit.
// Every Write replaces the previous document; there is no partial update.
// Implementations must publish a document atomically so a concurrent Read
// sees either the old or the new document, never a mix.
type DocumentStore interface {
	// Read loads the persisted document.
	// A missing or blank document yields an empty Document and no error.
	// Unparseable content yields ErrStorageDegraded.
	Read(ctx context.Context) (*Document, error)

	// Write replaces the persisted document.
	Write(ctx context.Context, doc *Document) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// Mutator is implemented by stores that can hold a lock in the backing
// storage for a whole read-modify-write, so writers in other processes are
// serialized too. fn may run more than once and must only change doc.
// Errors returned by fn are passed back unchanged and nothing is written.
type Mutator interface {
	Mutate(ctx context.Context, fn func(doc *Document) error) error
}

// Document is the persisted unit: every post plus the id counter.
type Document struct {
	Posts  []model.Post `json:"posts"`
	NextID int64        `json:"nextId,omitempty"`
}

// AllocateID hands out the next post id and advances the counter.
// Ids are never reused, even after the highest id is removed.
func (d *Document) AllocateID() int64 {
	d.normalizeNextID()
	id := d.NextID
	d.NextID++
	return id
}

// normalizeNextID guarantees NextID is above every stored id. Documents
// written before the counter existed derive it from max(id)+1.
func (d *Document) normalizeNextID() {
	var maxID int64
	for _, p := range d.Posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if d.NextID <= maxID {
		d.NextID = maxID + 1
	}
}

// IndexOf returns the position of the post with the given id, or -1.
func (d *Document) IndexOf(id int64) int {
	for i := range d.Posts {
		if d.Posts[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	out := &Document{NextID: d.NextID, Posts: make([]model.Post, len(d.Posts))}
	for i, p := range d.Posts {
		out.Posts[i] = p.Clone()
	}
	return out
}
