package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse(ErrCodeRateLimited, "Too many requests"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"RATE_LIMITED","message":"Too many requests"}}`, string(body))

	body, err = json.Marshal(NewSuccessResponse(map[string]string{"status": "ok"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, string(body))
}
