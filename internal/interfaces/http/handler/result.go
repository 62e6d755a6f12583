package handler

import (
	"github.com/dangreenberg93/cin7-uploader/internal/application/ingest"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/dto"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResultHandler handles order submission result endpoints
type ResultHandler struct {
	BaseHandler
	uploads *ingest.UploadService
}

// NewResultHandler creates a new result handler
func NewResultHandler(uploads *ingest.UploadService) *ResultHandler {
	return &ResultHandler{uploads: uploads}
}

// resultListQuery holds query parameters for listing failed results
type resultListQuery struct {
	dto.ListRequest
	UploadID       string `form:"upload_id" binding:"omitempty,uuid"`
	ErrorType      string `form:"error_type"`
	UnresolvedOnly bool   `form:"unresolved_only"`
}

// resolveRequest carries an optional override for who resolved the failure
type resolveRequest struct {
	ResolvedBy string `json:"resolved_by"`
}

// ListFailed returns failed order results, optionally only unresolved ones
func (h *ResultHandler) ListFailed(c *gin.Context) {
	query := resultListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
		Filters:  map[string]interface{}{},
	}
	if query.UploadID != "" {
		uploadID, err := uuid.Parse(query.UploadID)
		if err != nil {
			h.BadRequest(c, "Invalid upload ID format")
			return
		}
		filter.Filters["upload_id"] = uploadID
	}
	if query.ErrorType != "" {
		filter.Filters["error_type"] = query.ErrorType
	}

	results, err := h.uploads.ListFailedResults(c.Request.Context(), filter, query.UnresolvedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// Retry re-validates and resubmits a failed order
func (h *ResultHandler) Retry(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid result ID format")
		return
	}

	result, err := h.uploads.RetryResult(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Resolve marks a failed order as manually resolved
func (h *ResultHandler) Resolve(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid result ID format")
		return
	}

	resolvedBy := middleware.GetOperator(c)
	if c.Request.ContentLength > 0 {
		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
		if req.ResolvedBy != "" {
			resolvedBy = req.ResolvedBy
		}
	}
	if resolvedBy == "" {
		resolvedBy = "unknown"
	}

	result, err := h.uploads.ResolveResult(c.Request.Context(), id, resolvedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Review marks a failed order as reviewed
func (h *ResultHandler) Review(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid result ID format")
		return
	}

	result, err := h.uploads.ReviewResult(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
