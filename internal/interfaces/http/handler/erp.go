package handler

import (
	"github.com/dangreenberg93/cin7-uploader/internal/application/erpdata"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ERPHandler handles ERP connection and cache endpoints
type ERPHandler struct {
	BaseHandler
	erp *erpdata.Service
}

// NewERPHandler creates a new ERP handler
func NewERPHandler(erp *erpdata.Service) *ERPHandler {
	return &ERPHandler{erp: erp}
}

// credentialParam parses the credential_id query parameter
func (h *ERPHandler) credentialParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("credential_id"))
	if err != nil {
		h.BadRequest(c, "Invalid credential ID format")
		return uuid.Nil, false
	}
	return id, true
}

// TestConnection verifies the stored credentials against the ERP /me endpoint
func (h *ERPHandler) TestConnection(c *gin.Context) {
	credentialID, ok := h.credentialParam(c)
	if !ok {
		return
	}

	info, err := h.erp.TestConnection(c.Request.Context(), credentialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// RefreshCache re-pulls customers and products from the ERP
func (h *ERPHandler) RefreshCache(c *gin.Context) {
	credentialID, ok := h.credentialParam(c)
	if !ok {
		return
	}

	report, err := h.erp.Refresh(c.Request.Context(), credentialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// CacheAge reports when customers and products were last refreshed
func (h *ERPHandler) CacheAge(c *gin.Context) {
	credentialID, ok := h.credentialParam(c)
	if !ok {
		return
	}

	age, err := h.erp.Age(c.Request.Context(), credentialID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, age)
}
