package handler

import (
	"io"

	"github.com/dangreenberg93/cin7-uploader/internal/application/ingest"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/order"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler handles CSV upload endpoints
type UploadHandler struct {
	BaseHandler
	uploads *ingest.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *ingest.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// uploadListQuery holds query parameters for listing uploads
type uploadListQuery struct {
	dto.ListRequest
	CredentialID string `form:"credential_id" binding:"required,uuid"`
	Status       string `form:"status"`
	Source       string `form:"source"`
}

// Create accepts a multipart CSV upload and registers it for validation
func (h *UploadHandler) Create(c *gin.Context) {
	credentialID, err := uuid.Parse(c.PostForm("credential_id"))
	if err != nil {
		h.BadRequest(c, "Invalid credential ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read file upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unable to read file upload")
		return
	}

	req := ingest.CreateUploadRequest{
		CredentialID: credentialID,
		Filename:     fileHeader.Filename,
		Content:      content,
		Source:       order.UploadSource(c.PostForm("source")),
	}

	if raw := c.PostForm("template_id"); raw != "" {
		templateID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid template ID format")
			return
		}
		req.TemplateID = &templateID
	}

	upload, err := h.uploads.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, upload)
}

// List returns uploads for a credential with pagination
func (h *UploadHandler) List(c *gin.Context) {
	query := uploadListQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	credentialID, err := uuid.Parse(query.CredentialID)
	if err != nil {
		h.BadRequest(c, "Invalid credential ID format")
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
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.Source != "" {
		filter.Filters["source"] = query.Source
	}

	page, err := h.uploads.List(c.Request.Context(), credentialID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single upload by ID
func (h *UploadHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid upload ID format")
		return
	}

	upload, err := h.uploads.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// validateRequest holds the optional template override for validation and submission
type validateRequest struct {
	TemplateID *string `json:"template_id" binding:"omitempty,uuid"`
}

// Validate parses, maps and validates the upload without submitting
func (h *UploadHandler) Validate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid upload ID format")
		return
	}

	templateID, ok := h.bindTemplateID(c)
	if !ok {
		return
	}

	report, err := h.uploads.Validate(c.Request.Context(), id, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Submit validates the upload and pushes its orders to the ERP
func (h *UploadHandler) Submit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid upload ID format")
		return
	}

	templateID, ok := h.bindTemplateID(c)
	if !ok {
		return
	}

	report, err := h.uploads.Submit(c.Request.Context(), id, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Results returns the per-order submission results for an upload
func (h *UploadHandler) Results(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid upload ID format")
		return
	}

	results, err := h.uploads.Results(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// bindTemplateID reads the optional template override from the request body
func (h *UploadHandler) bindTemplateID(c *gin.Context) (*uuid.UUID, bool) {
	if c.Request.ContentLength == 0 {
		return nil, true
	}

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return nil, false
	}
	if req.TemplateID == nil || *req.TemplateID == "" {
		return nil, true
	}

	templateID, err := uuid.Parse(*req.TemplateID)
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return nil, false
	}
	return &templateID, true
}
