package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/library/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeRouteNotFound, http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForKind(shared.KindValidation))
	assert.Equal(t, http.StatusNotFound, StatusForKind(shared.KindNotFound))
	assert.Equal(t, http.StatusConflict, StatusForKind(shared.KindConflict))
	assert.Equal(t, http.StatusUnauthorized, StatusForKind(shared.KindUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, StatusForKind(shared.KindInternal))
	assert.Equal(t, http.StatusInternalServerError, StatusForKind(""))
}

func TestErrorEnvelope_JSON(t *testing.T) {
	body, err := json.Marshal(NewErrorResponseWithRequestID("ITEM_UNAVAILABLE", "Item is not available", "req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {"code": "ITEM_UNAVAILABLE", "message": "Item is not available", "request_id": "req-1"}
	}`, string(body))

	body, err = json.Marshal(NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{
		{Field: "code", Message: "This field is required"},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": [{"field": "code", "message": "This field is required"}]
		}
	}`, string(body))
}

func TestPagedResponse(t *testing.T) {
	resp := NewPagedResponse([]string{"a", "b"}, 2, 3, 50)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, Meta{Page: 3, PageSize: 50, Count: 2}, *resp.Meta)
	assert.Nil(t, resp.Error)
}
