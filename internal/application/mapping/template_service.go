package mapping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// TemplateService manages saved column-mapping templates.
type TemplateService struct {
	templateRepo mapping.TemplateRepository
	logger       *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo mapping.TemplateRepository, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templateRepo: templateRepo, logger: logger}
}

// Create stores a new template. Headers mapped to unknown field names
// are rejected.
func (s *TemplateService) Create(ctx context.Context, req CreateTemplateRequest) (*TemplateResponse, error) {
	if _, err := s.templateRepo.FindByName(ctx, req.CredentialID, req.Name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A template with this name already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	cols, err := toFieldMapping(req.ColumnMapping)
	if err != nil {
		return nil, err
	}
	tmpl, err := mapping.NewTemplate(req.CredentialID, req.Name, cols)
	if err != nil {
		return nil, err
	}
	if req.IsDefault {
		tmpl.MarkDefault()
	}

	if err := s.templateRepo.Save(ctx, tmpl); err != nil {
		return nil, err
	}

	s.logger.Info("mapping template created",
		zap.String("template_id", tmpl.ID.String()),
		zap.String("name", tmpl.Name))

	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// Get returns one template.
func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*TemplateResponse, error) {
	tmpl, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(tmpl)
	return &resp, nil
}

// List returns the templates for a credential.
func (s *TemplateService) List(ctx context.Context, credentialID uuid.UUID) ([]TemplateResponse, error) {
	templates, err := s.templateRepo.FindAllForCredential(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateResponse, len(templates))
	for i := range templates {
		out[i] = ToTemplateResponse(&templates[i])
	}
	return out, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.templateRepo.Delete(ctx, id)
}

// AutoDetect previews the mapping header detection would produce.
func (s *TemplateService) AutoDetect(req AutoDetectRequest) AutoDetectResponse {
	detected := mapping.AutoDetect(req.Headers)

	cols := make(map[string]string, len(detected))
	for header, field := range detected {
		cols[header] = string(field)
	}

	var missing []string
	for _, field := range mapping.MissingRequired(detected, req.RequireReference) {
		missing = append(missing, string(field))
	}
	return AutoDetectResponse{ColumnMapping: cols, Missing: missing}
}

func toFieldMapping(cols map[string]string) (map[string]mapping.Field, error) {
	known := make(map[mapping.Field]bool, len(mapping.AllFields))
	for _, f := range mapping.AllFields {
		known[f] = true
	}

	out := make(map[string]mapping.Field, len(cols))
	for header, name := range cols {
		field := mapping.Field(name)
		if !known[field] {
			return nil, shared.NewDomainError("UNKNOWN_FIELD", "Unknown field "+name)
		}
		out[header] = field
	}
	return out, nil
}
