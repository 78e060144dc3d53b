package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, "/test", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	middleware.RequestID()(c)
	return c, w
}

func TestBuildRequestAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedErr error
		expectError bool
		crop        string
	}{
		{name: "valid request is trimmed", body: `{"crop_name": " 밀 "}`, crop: "밀"},
		{name: "invalid JSON", body: `{"crop_name": }`, expectError: true},
		{name: "empty body", body: ``, expectError: true},
		{name: "validation error", body: `{"crop_name": " "}`, expectError: true, expectedErr: dto.ErrCropNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, tt.body)

			req, err := BuildRequestAndValidate[dto.RecommendationRequest](c)

			if tt.expectError {
				require.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.crop, req.CropName)
		})
	}
}

func TestResponseBuilder_Success(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")
	c.Request.Header.Set("Accept-Language", "en-US,en;q=0.9")

	NewResponseBuilder(c).Success(http.StatusOK, map[string]int{"total": 3}, i18n.SuccessKeyRecommendation)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.NotZero(t, resp.Timestamp)
	assert.Equal(t, i18n.GetTranslator().Translate(i18n.SuccessKeyRecommendation, "en"), resp.Message)
}

func TestResponseBuilder_Error(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		code         string
		err          error
		expectedCode string
		details      map[string]string
	}{
		{name: "explicit code", status: http.StatusBadRequest, code: dto.ErrCodeUnsupportedCrop, expectedCode: dto.ErrCodeUnsupportedCrop},
		{name: "code from status", status: http.StatusServiceUnavailable, expectedCode: dto.ErrCodeServiceUnavailable},
		{
			name:         "validation details",
			status:       http.StatusBadRequest,
			code:         dto.ErrCodeTooManyCrops,
			err:          dto.ErrTooManyCrops,
			expectedCode: dto.ErrCodeTooManyCrops,
			details:      map[string]string{"crop_names": dto.ErrTooManyCrops.Message},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "")

			NewResponseBuilder(c).Error(tt.status, tt.code, i18n.ErrKeyInvalidRequest, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error)
			assert.Equal(t, i18n.GetTranslator().Translate(i18n.ErrKeyInvalidRequest, i18n.DefaultLocale), resp.Message)
			assert.Equal(t, tt.details, resp.Details)
			assert.NotEmpty(t, resp.RequestID)
			if tt.err != nil {
				assert.Len(t, c.Errors, 1)
			}
		})
	}
}

func TestWriteServiceError_UnknownError(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "")

	writeServiceError(c, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidRequest, decodeError(t, w).Error)
}
