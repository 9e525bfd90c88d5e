package validator

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solivagant/quote-api/internal/model"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterBindings())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/difprice", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.QuoteRequest
	return c.ShouldBindJSON(&req)
}

func TestRegisterBindings_Idempotent(t *testing.T) {
	require.NoError(t, RegisterBindings())
	require.NoError(t, RegisterBindings())
}

func TestTranslateBindError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    error
		message string
	}{
		{
			name:    "missing services",
			body:    `{"selectedTime":"15","quantity":1}`,
			want:    apperrors.MalformedRequest,
			message: "selectedServices is required",
		},
		{
			name:    "missing time",
			body:    `{"selectedServices":["fixed_service1"],"quantity":1}`,
			want:    apperrors.MalformedRequest,
			message: "selectedTime is required",
		},
		{
			name:    "missing quantity",
			body:    `{"selectedServices":["fixed_service1"],"selectedTime":"15"}`,
			want:    apperrors.MalformedRequest,
			message: "quantity is required",
		},
		{
			name:    "blank service id",
			body:    `{"selectedServices":[""],"selectedTime":"15","quantity":1}`,
			want:    apperrors.MalformedRequest,
			message: "selectedServices[0] is required",
		},
		{
			name: "unknown tier",
			body: `{"selectedServices":["fixed_service1"],"selectedTime":"45","quantity":1}`,
			want: apperrors.InvalidTier,
		},
		{
			name:    "services wrong type",
			body:    `{"selectedServices":"fixed_service1","selectedTime":"15","quantity":1}`,
			want:    apperrors.MalformedRequest,
			message: "selectedServices must be of type []string",
		},
		{
			name:    "not json",
			body:    `selectedServices=fixed_service1`,
			want:    apperrors.MalformedRequest,
			message: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bind(t, tt.body)
			require.Error(t, err)

			appErr := TranslateBindError(err)
			assert.True(t, errors.Is(appErr, tt.want), "got %v", appErr)
			if tt.message != "" {
				assert.Equal(t, tt.message, appErr.Message)
			}
		})
	}
}

func TestBinding_AcceptsValidRequest(t *testing.T) {
	err := bind(t, `{"selectedServices":["fixed_service1","fixed_service1"],"selectedTime":"120+30","quantity":3}`)
	assert.NoError(t, err)
}

func TestBinding_AcceptsEmptySelection(t *testing.T) {
	err := bind(t, `{"selectedServices":[],"selectedTime":"15","quantity":1}`)
	assert.NoError(t, err)
}
