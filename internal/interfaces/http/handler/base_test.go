package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectStatus int
		expectCode   string
	}{
		{
			name:         "not found sentinel",
			err:          shared.ErrNotFound,
			expectStatus: http.StatusNotFound,
			expectCode:   dto.ErrCodeNotFound,
		},
		{
			name:         "wrapped domain error",
			err:          fmt.Errorf("lookup: %w", shared.NewDomainError("UNMAPPED_FIELDS", "Unmapped required fields")),
			expectStatus: http.StatusUnprocessableEntity,
			expectCode:   dto.ErrCodeUnmappedFields,
		},
		{
			name:         "upload state error",
			err:          shared.NewDomainError("INVALID_UPLOAD_STATE", "Upload already submitted"),
			expectStatus: http.StatusUnprocessableEntity,
			expectCode:   dto.ErrCodeInvalidState,
		},
		{
			name:         "plain error becomes internal",
			err:          errors.New("boom"),
			expectStatus: http.StatusInternalServerError,
			expectCode:   dto.ErrCodeInternal,
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectCode)
		})
	}
}

func TestBaseHandler_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	h := &BaseHandler{}
	h.NoContent(c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
