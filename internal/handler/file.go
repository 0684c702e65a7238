package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/service"
	"FileVault/utils"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ListFiles returns one page of the caller's file metadata.
func ListFiles(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil || limit <= 0 {
		limit = 30
	}

	user := utils.CurrentUser(c)
	resp, err := service.ListFiles(c.Request.Context(), user.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadMultiple stores every file part of the multipart request. Per-part
// failures travel in the response body; only an unreadable multipart stream
// is a request-level error.
func UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload failed", "message": err.Error()})
		return
	}

	parts := make([]*multipart.FileHeader, 0)
	for _, headers := range form.File {
		parts = append(parts, headers...)
	}

	user := utils.CurrentUser(c)
	resp := service.BatchUpload(c.Request.Context(), user, parts)
	c.JSON(http.StatusOK, resp)
}

// DownloadMultiple returns a zip archive of the requested files, or fails
// the whole request when any uuid is unknown or foreign.
func DownloadMultiple(c *gin.Context) {
	var req dto.MultiDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filesUuids required"})
		return
	}

	user := utils.CurrentUser(c)
	archive, err := service.BuildArchive(c.Request.Context(), user, req.FilesUuids)
	if err != nil {
		if errors.Is(err, service.ErrFilesNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrFilesNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed", "message": err.Error()})
		return
	}

	attachmentName := fmt.Sprintf("%d_downloaded_files.zip", time.Now().UnixMilli())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", attachmentName))
	c.Data(http.StatusOK, "application/zip", archive)
}
