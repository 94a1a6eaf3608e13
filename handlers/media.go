package handlers

import (
	"io"
	"net/http"

	"slotbook/models"
	"slotbook/services/media"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
)

// maxUploadSize caps avatar and work uploads.
const maxUploadSize = 10 << 20

type MediaHandler struct {
	MediaService media.MediaService
}

func NewMediaHandler(svc media.MediaService) *MediaHandler {
	return &MediaHandler{MediaService: svc}
}

// formImage opens the uploaded multipart file named field.
func formImage(c *gin.Context, field string) (io.ReadCloser, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile(field)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", "expected multipart field '"+field+"'")
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "can't open file", err.Error())
		return nil, false
	}
	return file, true
}

func streamBlob(c *gin.Context, rc io.ReadCloser, contentType string) {
	defer rc.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control": "public, max-age=300",
	})
}

// UploadAvatarHandler handles POST /users/avatar (multipart field "avatar").
func (h *MediaHandler) UploadAvatarHandler(c *gin.Context) {
	file, ok := formImage(c, "avatar")
	if !ok {
		return
	}
	defer file.Close()

	if err := h.MediaService.SetAvatar(c.Request.Context(), currentUserID(c), file); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetAvatarHandler handles GET /users/:id/avatar.
func (h *MediaHandler) GetAvatarHandler(c *gin.Context) {
	rc, contentType, err := h.MediaService.OpenAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	streamBlob(c, rc, contentType)
}

// UploadWorkHandler handles POST /users/works (multipart field "work").
func (h *MediaHandler) UploadWorkHandler(c *gin.Context) {
	file, ok := formImage(c, "work")
	if !ok {
		return
	}
	defer file.Close()

	work, err := h.MediaService.AddWork(c.Request.Context(), currentUserID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.CreatedResponse{ID: work.ID})
}

// ListWorksHandler handles GET /users/:id/works.
func (h *MediaHandler) ListWorksHandler(c *gin.Context) {
	ids, err := h.MediaService.ListWorks(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// GetWorkHandler handles GET /users/:id/works/:workId.
func (h *MediaHandler) GetWorkHandler(c *gin.Context) {
	rc, contentType, err := h.MediaService.OpenWork(c.Request.Context(), c.Param("id"), c.Param("workId"))
	if err != nil {
		respondError(c, err)
		return
	}
	streamBlob(c, rc, contentType)
}

// DeleteWorkHandler handles DELETE /masters/works/:id.
func (h *MediaHandler) DeleteWorkHandler(c *gin.Context) {
	if err := h.MediaService.DeleteWork(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
