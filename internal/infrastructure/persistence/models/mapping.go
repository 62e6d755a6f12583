package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
)

// TemplateModel is the persistence model for mapping templates. The
// column mapping is stored as a JSON object of header to field name.
type TemplateModel struct {
	BaseModel
	CredentialID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_cred_name,priority:1"`
	Name          string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_template_cred_name,priority:2"`
	ColumnMapping string    `gorm:"type:jsonb;not null"`
	IsDefault     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TemplateModel) TableName() string {
	return "csv_mapping_templates"
}

// ToDomain converts the persistence model to a domain Template.
func (m *TemplateModel) ToDomain() (*mapping.Template, error) {
	var cols map[string]mapping.Field
	if err := json.Unmarshal([]byte(m.ColumnMapping), &cols); err != nil {
		return nil, err
	}
	return &mapping.Template{
		ID:            m.ID,
		CredentialID:  m.CredentialID,
		Name:          m.Name,
		ColumnMapping: cols,
		IsDefault:     m.IsDefault,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Template.
func (m *TemplateModel) FromDomain(t *mapping.Template) error {
	cols, err := json.Marshal(t.ColumnMapping)
	if err != nil {
		return err
	}
	m.ID = t.ID
	m.CredentialID = t.CredentialID
	m.Name = t.Name
	m.ColumnMapping = string(cols)
	m.IsDefault = t.IsDefault
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	return nil
}
