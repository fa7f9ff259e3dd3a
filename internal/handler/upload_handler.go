package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/glodinasflexwork/flexwork-api/internal/storage"
)

// Allowed extensions per upload kind. Documents cover CVs and company
// paperwork, images cover logos and profile photos.
var allowedExtensions = map[string]map[string]bool{
	"document": {"pdf": true, "docx": true, "jpg": true, "jpeg": true},
	"image":    {"jpg": true, "png": true},
}

type UploadHandler struct {
	store    storage.Storage
	maxBytes int64
}

func NewUploadHandler(store storage.Storage, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: maxBytes}
}

// Upload handles POST /uploads?kind=document|image with a single
// multipart "file" part. The response carries the stored URL the wizard
// folds into its draft.
func (h *UploadHandler) Upload(c *gin.Context) {
	kind := c.DefaultQuery("kind", "document")
	allowed, ok := allowedExtensions[kind]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown upload kind"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A single 'file' part is required"})
		return
	}

	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "The file is too large"})
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if !allowed[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This file type is not allowed"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	id, url, err := h.store.Save(fileHeader.Filename, ext, f)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "url": url})
}
