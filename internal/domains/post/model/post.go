package model

import "time"

// Post is a blog post as persisted in the post document.
// UserName and UserImg are a snapshot of the owner taken at creation time;
// they are never re-joined against live user data.
type Post struct {
	ID        int64      `json:"id"`
	Header    string     `json:"header"`
	Content   string     `json:"content"`
	CoverImg  string     `json:"coverImg"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"` // nil until the first update
	Tags      []string   `json:"tags"`
	Slug      string     `json:"slug"`

	// Owner snapshot
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	UserImg  string `json:"userImg,omitempty"`
}

// Owner is the acting identity asserted by the identity provider.
// The post service trusts it for ownership checks and snapshots.
type Owner struct {
	ID        int64
	Username  string
	AvatarRef string
}

// OwnedBy reports whether the post belongs to the given owner.
func (p *Post) OwnedBy(owner Owner) bool {
	return p.UserID == owner.ID
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Post) Clone() Post {
	if p.Tags != nil {
		tags := make([]string, len(p.Tags))
		copy(tags, p.Tags)
		p.Tags = tags
	}
	if p.UpdatedAt != nil {
		ts := *p.UpdatedAt
		p.UpdatedAt = &ts
	}
	return p
}
