package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Pagination defaults shared by list and search
const (
	DefaultLimit  = 5
	DefaultOffset = 0
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreatePostRequest request to create a post
type CreatePostRequest struct {
	Header   string   `json:"header"`
	Content  string   `json:"content"`
	CoverImg string   `json:"coverImg,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Slug     string   `json:"slug,omitempty"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Header,
			validation.Required.Error("header is required"),
			validation.By(notBlank("header")),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.Tags,
			validation.Each(validation.By(notBlank("tag"))),
		),
	)
}

// UpdatePostRequest request to update a post.
// Nil fields are left untouched.
type UpdatePostRequest struct {
	Header   *string   `json:"header,omitempty"`
	Content  *string   `json:"content,omitempty"`
	CoverImg *string   `json:"coverImg,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Slug     *string   `json:"slug,omitempty"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Header,
			validation.When(r.Header != nil, validation.By(notBlank("header"))),
		),
		validation.Field(&r.Content,
			validation.When(r.Content != nil, validation.Required.Error("content must not be empty")),
		),
	)
}

// ApplyTo merges the supplied fields into post. The slug is left to the caller.
func (r UpdatePostRequest) ApplyTo(post *Post) {
	if r.Header != nil {
		post.Header = *r.Header
	}
	if r.Content != nil {
		post.Content = *r.Content
	}
	if r.CoverImg != nil {
		post.CoverImg = *r.CoverImg
	}
	if r.Tags != nil {
		tags := make([]string, len(*r.Tags))
		copy(tags, *r.Tags)
		post.Tags = tags
	}
}

func notBlank(field string) validation.RuleFunc {
	return func(value interface{}) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		default:
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return validation.NewError("validation_blank", field+" must not be blank")
		}
		return nil
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// CountResponse answers GET /posts/count
type CountResponse struct {
	Total int `json:"total"`
}

// UploadResponse answers the upload endpoints
type UploadResponse struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// DeleteResponse answers DELETE /posts/:id
type DeleteResponse struct {
	Success bool `json:"success"`
}
