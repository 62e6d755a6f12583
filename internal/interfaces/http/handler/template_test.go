package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appmapping "github.com/dangreenberg93/cin7-uploader/internal/application/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/mapping"
	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockTemplateRepository is a mock implementation of mapping.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*mapping.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mapping.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByName(ctx context.Context, credentialID uuid.UUID, name string) (*mapping.Template, error) {
	args := m.Called(ctx, credentialID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mapping.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindDefault(ctx context.Context, credentialID uuid.UUID) (*mapping.Template, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mapping.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAllForCredential(ctx context.Context, credentialID uuid.UUID) ([]mapping.Template, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mapping.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *mapping.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTemplateTestServer(repo *MockTemplateRepository) *gin.Engine {
	service := appmapping.NewTemplateService(repo, nil)
	h := NewTemplateHandler(service)

	engine := gin.New()
	engine.POST("/templates", h.Create)
	engine.GET("/templates", h.List)
	engine.GET("/templates/:id", h.Get)
	engine.DELETE("/templates/:id", h.Delete)
	engine.POST("/templates/auto-detect", h.AutoDetect)
	return engine
}

func TestTemplateHandler_Create(t *testing.T) {
	repo := new(MockTemplateRepository)
	engine := newTemplateTestServer(repo)

	credentialID := uuid.New()
	repo.On("FindByName", mock.Anything, credentialID, "wholesale").Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*mapping.Template")).Return(nil)

	body, _ := json.Marshal(appmapping.CreateTemplateRequest{
		CredentialID: credentialID,
		Name:         "wholesale",
		ColumnMapping: map[string]string{
			"Customer": "CustomerName",
			"SKU":      "SKU",
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/templates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestTemplateHandler_Create_DuplicateName(t *testing.T) {
	repo := new(MockTemplateRepository)
	engine := newTemplateTestServer(repo)

	credentialID := uuid.New()
	existing, err := mapping.NewTemplate(credentialID, "wholesale", map[string]mapping.Field{
		"Customer": mapping.FieldCustomerName,
	})
	require.NoError(t, err)
	repo.On("FindByName", mock.Anything, credentialID, "wholesale").Return(existing, nil)

	body, _ := json.Marshal(appmapping.CreateTemplateRequest{
		CredentialID:  credentialID,
		Name:          "wholesale",
		ColumnMapping: map[string]string{"Customer": "CustomerName"},
	})

	req := httptest.NewRequest(http.MethodPost, "/templates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), dto.ErrCodeAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTemplateHandler_Get_NotFound(t *testing.T) {
	repo := new(MockTemplateRepository)
	engine := newTemplateTestServer(repo)

	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/templates/"+id.String(), nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), dto.ErrCodeNotFound)
}

func TestTemplateHandler_Delete(t *testing.T) {
	repo := new(MockTemplateRepository)
	engine := newTemplateTestServer(repo)

	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/templates/"+id.String(), nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestTemplateHandler_AutoDetect(t *testing.T) {
	repo := new(MockTemplateRepository)
	engine := newTemplateTestServer(repo)

	body, _ := json.Marshal(appmapping.AutoDetectRequest{
		Headers: []string{"Customer", "SKU", "Quantity", "Price", "Invoice Date"},
	})

	req := httptest.NewRequest(http.MethodPost, "/templates/auto-detect", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                          `json:"success"`
		Data    appmapping.AutoDetectResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "CustomerName", resp.Data.ColumnMapping["Customer"])
	assert.Equal(t, "SKU", resp.Data.ColumnMapping["SKU"])
}
