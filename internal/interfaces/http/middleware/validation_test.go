package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationTestRequest struct {
	Name     string `json:"name" binding:"required"`
	PageSize int    `json:"page_size" binding:"omitempty,gte=1,lte=100"`
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"page_size":500}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req validationTestRequest
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-123")
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Must be less than or equal to 100", fields["page_size"])
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-456")
	require.NotNil(t, resp.Error)
	assert.Equal(t, assert.AnError.Error(), resp.Error.Message)
	assert.Empty(t, resp.Error.Details)
}
