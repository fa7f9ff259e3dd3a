package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
	"github.com/glodinasflexwork/flexwork-api/internal/service"
)

type SubmissionHandler struct {
	submissions service.SubmissionService
}

func NewSubmissionHandler(submissions service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Create handles POST /submissions. The optional Idempotency-Key header
// lets the wizard retry safely without producing duplicate records.
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.SubmissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	record, err := h.submissions.Create(c.Request.Context(), &req, c.GetHeader("Idempotency-Key"))
	if err != nil {
		if validationErrs, ok := err.(domain.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": validationErrs,
			})
			return
		}
		if errors.Is(err, domain.ErrDuplicateRequest) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "A submission with this idempotency key was already received",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create submission",
		})
		return
	}

	c.JSON(http.StatusCreated, dto.CreateResponse{ID: record.ID})
}

// List handles GET /submissions?page&limit&status&search&flow for the
// admin panel.
func (h *SubmissionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	records, pagination, err := h.submissions.List(
		c.Request.Context(),
		c.Query("flow"),
		c.Query("status"),
		c.Query("search"),
		page, limit,
	)
	if err != nil {
		if validationErrs, ok := err.(domain.ValidationErrors); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"details": validationErrs,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve submissions",
		})
		return
	}

	data := make([]*dto.SubmissionResponse, 0, len(records))
	for _, record := range records {
		data = append(data, dto.FromDomain(record))
	}

	c.JSON(http.StatusOK, dto.ListResponse{Data: data, Pagination: pagination})
}

// Get handles GET /submissions/:id.
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	record, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submission"})
		return
	}

	c.JSON(http.StatusOK, dto.FromDomain(record))
}

// UpdateStatus handles PUT /submissions/:id. Any status from the closed
// set is accepted; the transition suggestions in the response are UI
// guidance only.
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	record, err := h.submissions.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		default:
			if validationErrs, ok := err.(domain.ValidationErrors); ok {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Validation failed",
					"details": validationErrs,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromDomain(record))
}

// Delete handles DELETE /submissions/:id. Hard delete, no undo.
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	if err := h.submissions.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	c.Status(http.StatusNoContent)
}
