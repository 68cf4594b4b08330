package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"neurosurg/learning-app/internal/service"
)

// MediaHandler hands out presigned URLs for step media and thumbnail
// uploads. Routes 404 when the server runs without object storage
// configured (the handler is simply not mounted then).
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// RequestUploadURL returns a presigned PUT URL for a new media object.
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedMediaType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadURL returns a presigned GET URL for an existing object.
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Object key is required")
		return
	}

	url, err := h.mediaService.DownloadURL(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not generate download URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// Delete removes an object from storage.
func (h *MediaHandler) Delete(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Object key is required")
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), key); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not delete object")
		return
	}
	c.JSON(http.StatusOK, AckResponse{Message: "Media deleted successfully"})
}
