package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/repository"
)

type bindTarget struct {
	TaskID   string  `json:"taskId" binding:"required"`
	Distance float64 `json:"distance"`
}

func bind(body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req bindTarget
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestBindError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    string
		details interface{}
	}{
		{name: "missing field", body: `{"distance": 3}`, code: ErrCodeMissingField, details: map[string]interface{}{"fields": []interface{}{"TaskID"}}},
		{name: "malformed json", body: `{"taskId": `, code: ErrCodeInvalidFormat},
		{name: "wrong type", body: `{"taskId": "1", "distance": "far"}`, code: ErrCodeInvalidInput, details: map[string]interface{}{"field": "distance"}},
		{name: "empty body", body: ``, code: ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := bind(tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			apiErr := decode(t, w)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.details, apiErr.Details)
		})
	}
}

func TestHelpers_DefaultMessages(t *testing.T) {
	tests := []struct {
		name   string
		send   func(c *gin.Context)
		status int
		want   *APIError
	}{
		{name: "not found", send: func(c *gin.Context) { NotFound(c, "") }, status: http.StatusNotFound, want: ErrNotFound},
		{name: "bad request", send: func(c *gin.Context) { BadRequest(c, "") }, status: http.StatusBadRequest, want: ErrInvalidInput},
		{name: "internal", send: func(c *gin.Context) { InternalError(c, "") }, status: http.StatusInternalServerError, want: ErrInternalError},
		{name: "storage", send: func(c *gin.Context) { StorageError(c, "") }, status: http.StatusInternalServerError, want: ErrStorage},
		{name: "unavailable", send: func(c *gin.Context) { ServiceUnavailable(c, "") }, status: http.StatusServiceUnavailable, want: ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.send(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, *tt.want, decode(t, w))
		})
	}
}

func TestFromService(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "write", err: fmt.Errorf("failed to save tasks: %w", repository.ErrStorageWrite), code: ErrCodeStorageError},
		{name: "read", err: fmt.Errorf("failed to load: %w", repository.ErrStorageRead), code: ErrCodeStorageError},
		{name: "other", err: fmt.Errorf("boom"), code: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			FromService(c, tt.err)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, tt.code, decode(t, w).Code)
		})
	}
}
