package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/infrastructure/storage"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/response"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/logger"
)

// Upload folders, relative to the uploader root
const (
	CoverFolder = "covers"
	ImageFolder = "posts"
)

// uploadField is the multipart field carrying the file
const uploadField = "file"

// imageExtensions lists the accepted raster types. The stored extension
// always comes from the sniffed content, never from the client filename,
// so static serving cannot hand out markup or scripts.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// =====================================================
// UPLOAD HANDLER
// =====================================================

type UploadHandler struct {
	uploader storage.Uploader
	images   *storage.ImageProcessor
	maxBytes int64
	now      func() time.Time
}

func NewUploadHandler(uploader storage.Uploader, images *storage.ImageProcessor, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		images:   images,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// UploadCover stores a cover image, shrinking oversized ones
// POST /api/v1/posts/upload/cover
func (h *UploadHandler) UploadCover(c *gin.Context) {
	data, ext, mime, err := h.readImage(c)
	if err != nil {
		respondPostError(c, err)
		return
	}

	if h.images != nil {
		fitted, resized, err := h.images.Fit(data)
		if err != nil {
			respondPostError(c, model.NewInvalidUploadError(err.Error()))
			return
		}
		if resized {
			logger.Debug("cover image resized", map[string]interface{}{
				"from_bytes": len(data),
				"to_bytes":   len(fitted),
			})
			data = fitted
		}
	}

	ref, err := h.store(c, CoverFolder, data, ext, mime)
	if err != nil {
		respondUploadFailure(c, err)
		return
	}

	response.Success(c, http.StatusCreated, model.UploadResponse{URL: ref})
}

// UploadImage stores an inline content image
// POST /api/v1/posts/upload/img
func (h *UploadHandler) UploadImage(c *gin.Context) {
	data, ext, mime, err := h.readImage(c)
	if err != nil {
		respondPostError(c, err)
		return
	}

	ref, err := h.store(c, ImageFolder, data, ext, mime)
	if err != nil {
		respondUploadFailure(c, err)
		return
	}

	logger.Info("image uploaded", map[string]interface{}{
		"url":   ref,
		"bytes": len(data),
	})

	response.Success(c, http.StatusCreated, model.UploadResponse{URL: ref, Message: "Image uploaded successfully"})
}

// =====================================================
// HELPERS
// =====================================================

// readImage reads the multipart file, enforcing the size limit and
// checking the content is a supported raster image
func (h *UploadHandler) readImage(c *gin.Context) (data []byte, ext, mime string, err error) {
	// Multipart framing needs some room on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64*1024)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", "", model.NewUploadTooLargeError(h.maxBytes)
		}
		return nil, "", "", model.NewMissingUploadError()
	}
	if header.Size > h.maxBytes {
		return nil, "", "", model.NewUploadTooLargeError(h.maxBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", "", model.NewInvalidUploadError("Cannot read uploaded file")
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		return nil, "", "", model.NewInvalidUploadError("Cannot read uploaded file")
	}
	if int64(len(data)) > h.maxBytes {
		return nil, "", "", model.NewUploadTooLargeError(h.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", "", model.NewMissingUploadError()
	}

	detected := mimetype.Detect(data)
	mime = detected.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	ext, ok := imageExtensions[mime]
	if !ok {
		return nil, "", "", model.NewInvalidUploadError(fmt.Sprintf("Unsupported file type %s, expected png, jpeg, gif or webp", mime))
	}

	return data, ext, mime, nil
}

func (h *UploadHandler) store(c *gin.Context, folder string, data []byte, ext, mime string) (string, error) {
	key := folder + "/" + objectName(h.now(), ext)
	return h.uploader.Upload(c.Request.Context(), key, data, mime)
}

// objectName builds <unixMillis>_<random><ext>
func objectName(now time.Time, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), random, ext)
}

func respondUploadFailure(c *gin.Context, err error) {
	respondPostError(c, &model.PostError{
		Code:    model.ErrCodeStorageFailure,
		Message: "Upload failed",
		Err:     err,
	})
}
