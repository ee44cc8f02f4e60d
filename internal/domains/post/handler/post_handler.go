package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/service"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/middleware"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/response"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/logger"
)

// =====================================================
// POST HANDLER
// =====================================================

type PostHandler struct {
	postService service.ServiceInterface
}

func NewPostHandler(postService service.ServiceInterface) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListPosts returns a page of posts, newest first
// GET /api/v1/posts?limit=5&offset=0
func (h *PostHandler) ListPosts(c *gin.Context) {
	limit := queryInt(c, "limit", model.DefaultLimit)
	if limit <= 0 {
		limit = model.DefaultLimit
	}
	offset := queryInt(c, "offset", model.DefaultOffset)
	if offset < 0 {
		offset = model.DefaultOffset
	}

	posts, err := h.postService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondPostError(c, err)
		return
	}

	total, err := h.postService.Count(c.Request.Context())
	if err != nil {
		respondPostError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// CountPosts returns the number of posts
// GET /api/v1/posts/count
func (h *PostHandler) CountPosts(c *gin.Context) {
	total, err := h.postService.Count(c.Request.Context())
	if err != nil {
		respondPostError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.CountResponse{Total: total})
}

// SearchPosts ranks posts against ?q=
// GET /api/v1/posts/search/query?q=go&limit=5
func (h *PostHandler) SearchPosts(c *gin.Context) {
	limit := queryInt(c, "limit", model.DefaultLimit)

	posts, err := h.postService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondPostError(c, err)
		return
	}

	response.Success(c, http.StatusOK, posts)
}

// GetPost returns the post with the given slug
// GET /api/v1/posts/:slug
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondPostError(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

// =====================================================
// AUTHENTICATED ENDPOINTS
// =====================================================

// CreatePost creates a post owned by the caller
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	// Step 1: Identity from the auth middleware
	owner, ok := getOwner(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	// Step 2: Bind request body
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 3: Call service (validates the request)
	post, err := h.postService.Create(c.Request.Context(), req, owner)
	if err != nil {
		respondPostError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, post)
}

// UpdatePost merges the supplied fields into the caller's post
// PATCH /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	owner, ok := getOwner(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, req, owner)
	if err != nil {
		respondPostError(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

// DeletePost removes the caller's post
// DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	owner, ok := getOwner(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.postService.Remove(c.Request.Context(), id, owner); err != nil {
		respondPostError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.DeleteResponse{Success: true})
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// getOwner builds the acting identity set by middleware.AuthMiddleware
func getOwner(c *gin.Context) (model.Owner, bool) {
	id := c.GetInt64(middleware.ContextKeyUserID)
	if id <= 0 {
		return model.Owner{}, false
	}
	return model.Owner{
		ID:        id,
		Username:  c.GetString(middleware.ContextKeyUsername),
		AvatarRef: c.GetString(middleware.ContextKeyUserImg),
	}, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter; anything unparsable
// falls back to def, never to a 400
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// respondPostError writes the envelope for a service error
func respondPostError(c *gin.Context, err error) {
	statusCode, code := mapPostError(err)

	var postErr *model.PostError
	message := "Internal server error"
	if errors.As(err, &postErr) {
		message = postErr.Message
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error("post request failed", err)
	}

	response.ErrorResponse(c, statusCode, code, message)
}

// mapPostError maps post error to HTTP status code
func mapPostError(err error) (int, string) {
	var postErr *model.PostError
	if !errors.As(err, &postErr) {
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}

	switch postErr.Code {
	case model.ErrCodePostNotFound:
		return http.StatusNotFound, postErr.Code
	case model.ErrCodeNotOwner:
		return http.StatusUnauthorized, postErr.Code
	case model.ErrCodeInvalidPost, model.ErrCodeInvalidUpload, model.ErrCodeMissingUpload:
		return http.StatusBadRequest, postErr.Code
	case model.ErrCodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge, postErr.Code
	case model.ErrCodeStorageDegraded:
		return http.StatusServiceUnavailable, postErr.Code
	default:
		return http.StatusInternalServerError, postErr.Code
	}
}
