package mapping

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// Template is a saved CSV-column-to-ERP-field association reused across
// uploads for one credential.
type Template struct {
	ID            uuid.UUID
	CredentialID  uuid.UUID
	Name          string
	ColumnMapping map[string]Field
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTemplate creates a mapping template. The name is unique per
// credential and at least one column must be mapped.
func NewTemplate(credentialID uuid.UUID, name string, columnMapping map[string]Field) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot exceed 100 characters")
	}
	if credentialID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIAL", "Template must belong to a credential")
	}
	if len(columnMapping) == 0 {
		return nil, shared.NewDomainError("EMPTY_MAPPING", "Template must map at least one column")
	}
	now := time.Now()
	return &Template{
		ID:            uuid.New(),
		CredentialID:  credentialID,
		Name:          name,
		ColumnMapping: copyMapping(columnMapping),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateMapping replaces the column mapping.
func (t *Template) UpdateMapping(columnMapping map[string]Field) error {
	if len(columnMapping) == 0 {
		return shared.NewDomainError("EMPTY_MAPPING", "Template must map at least one column")
	}
	t.ColumnMapping = copyMapping(columnMapping)
	t.UpdatedAt = time.Now()
	return nil
}

// MarkDefault flags this template as the default for its credential.
func (t *Template) MarkDefault() {
	t.IsDefault = true
	t.UpdatedAt = time.Now()
}

// FieldFor returns the mapped field for a CSV header, if any.
func (t *Template) FieldFor(header string) (Field, bool) {
	f, ok := t.ColumnMapping[header]
	return f, ok
}

func copyMapping(m map[string]Field) map[string]Field {
	out := make(map[string]Field, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TemplateRepository persists mapping templates.
type TemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	FindByName(ctx context.Context, credentialID uuid.UUID, name string) (*Template, error)
	FindDefault(ctx context.Context, credentialID uuid.UUID) (*Template, error)
	FindAllForCredential(ctx context.Context, credentialID uuid.UUID) ([]Template, error)
	Save(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}
