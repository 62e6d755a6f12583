package handler

import (
	"strconv"

	"github.com/dangreenberg93/cin7-uploader/internal/application/webhook"
	"github.com/gin-gonic/gin"
)

// WebhookHandler handles inbound email webhook endpoints
type WebhookHandler struct {
	BaseHandler
	webhooks *webhook.Service
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhooks *webhook.Service) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// Missive receives a Missive email notification and runs the report pipeline
func (h *WebhookHandler) Missive(c *gin.Context) {
	var payload webhook.MissivePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.webhooks.Process(c.Request.Context(), &payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Queue returns recent webhook-sourced uploads with their results
func (h *WebhookHandler) Queue(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.webhooks.Queue(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
