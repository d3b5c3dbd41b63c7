// Package images handles poll hero image uploads. Images live in S3, not
// in the persisted document; only the resulting URL is stored on the poll.
package images

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/timesync/backend/internal/polls"
	"github.com/timesync/backend/pkg/response"
	"github.com/timesync/backend/pkg/storage"
)

// Handler handles hero image HTTP endpoints.
type Handler struct {
	pollRepo *polls.Repository
	s3       *storage.S3
	logger   *zap.Logger
}

// NewHandler creates an images handler. s3 may be nil when no bucket is
// configured; uploads then answer 503 and polls fall back to inline or
// external image URLs.
func NewHandler(pollRepo *polls.Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{pollRepo: pollRepo, s3: s3, logger: logger}
}

// Upload handles POST /polls/:id/hero-image (multipart field "image").
// The object URL is stored on the poll and returned.
func (h *Handler) Upload(c *gin.Context) {
	poll := h.pollRepo.GetByID(c.Request.Context(), c.Param("id"))
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "missing image file")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxHeroImageSize {
		response.PayloadTooLarge(c, "image exceeds 5MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateImageType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}

	key, err := h.s3.UploadHeroImage(c.Request.Context(), poll.ID, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("hero image upload failed", zap.String("poll_id", poll.ID), zap.Error(err))
		response.Internal(c, "failed to store image")
		return
	}

	poll.HeroImage = h.s3.ObjectURL(key)
	h.pollRepo.Save(c.Request.Context(), poll)
	response.OK(c, gin.H{"pollId": poll.ID, "heroImage": poll.HeroImage})
}

// Download handles GET /polls/:id/hero-image. Bucket-hosted images redirect
// to a time-limited pre-signed URL so the bucket never has to be public;
// external image URLs redirect as-is, and inline data URLs come back in the
// response body since they are not addressable.
func (h *Handler) Download(c *gin.Context) {
	poll := h.pollRepo.GetByID(c.Request.Context(), c.Param("id"))
	if poll == nil {
		response.NotFound(c, "poll not found")
		return
	}
	if poll.HeroImage == "" {
		response.NotFound(c, "poll has no hero image")
		return
	}
	if strings.HasPrefix(poll.HeroImage, "data:") {
		response.OK(c, gin.H{"pollId": poll.ID, "heroImage": poll.HeroImage})
		return
	}
	if h.s3 != nil {
		if key, ok := h.s3.KeyFromURL(poll.HeroImage); ok {
			url, err := h.s3.PresignGetURL(c.Request.Context(), key)
			if err != nil {
				h.logger.Error("hero image presign failed", zap.String("poll_id", poll.ID), zap.Error(err))
				response.Internal(c, "failed to sign image URL")
				return
			}
			c.Redirect(http.StatusFound, url)
			return
		}
	}
	c.Redirect(http.StatusFound, poll.HeroImage)
}
