package handler

import (
	"github.com/dangreenberg93/cin7-uploader/internal/application/mapping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TemplateHandler handles column mapping template endpoints
type TemplateHandler struct {
	BaseHandler
	templates *mapping.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates *mapping.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// Create saves a new mapping template
func (h *TemplateHandler) Create(c *gin.Context) {
	var req mapping.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	template, err := h.templates.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// List returns all templates for a credential
func (h *TemplateHandler) List(c *gin.Context) {
	credentialID, err := uuid.Parse(c.Query("credential_id"))
	if err != nil {
		h.BadRequest(c, "Invalid credential ID format")
		return
	}

	templates, err := h.templates.List(c.Request.Context(), credentialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, templates)
}

// Get returns a single template by ID
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	template, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Delete removes a template
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AutoDetect previews the automatic column mapping for a header row
func (h *TemplateHandler) AutoDetect(c *gin.Context) {
	var req mapping.AutoDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	h.Success(c, h.templates.AutoDetect(req))
}
