package mapping

import (
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
)

// CreateTemplateRequest creates a saved column mapping.
type CreateTemplateRequest struct {
	CredentialID  uuid.UUID         `json:"credential_id" binding:"required"`
	Name          string            `json:"name" binding:"required,min=1,max=100"`
	ColumnMapping map[string]string `json:"column_mapping" binding:"required"`
	IsDefault     bool              `json:"is_default"`
}

// TemplateResponse is the API view of a template.
type TemplateResponse struct {
	ID            uuid.UUID         `json:"id"`
	CredentialID  uuid.UUID         `json:"credential_id"`
	Name          string            `json:"name"`
	ColumnMapping map[string]string `json:"column_mapping"`
	IsDefault     bool              `json:"is_default"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ToTemplateResponse maps a domain template to its API view.
func ToTemplateResponse(t *mapping.Template) TemplateResponse {
	cols := make(map[string]string, len(t.ColumnMapping))
	for header, field := range t.ColumnMapping {
		cols[header] = string(field)
	}
	return TemplateResponse{
		ID:            t.ID,
		CredentialID:  t.CredentialID,
		Name:          t.Name,
		ColumnMapping: cols,
		IsDefault:     t.IsDefault,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// AutoDetectRequest previews a mapping for a set of CSV headers.
type AutoDetectRequest struct {
	Headers          []string `json:"headers" binding:"required,min=1"`
	RequireReference bool     `json:"require_reference"`
}

// AutoDetectResponse is the detected mapping plus any required fields
// no header matched.
type AutoDetectResponse struct {
	ColumnMapping map[string]string `json:"column_mapping"`
	Missing       []string          `json:"missing,omitempty"`
}
