package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(map[string]any{"id": "x"})
	assert.Equal(t, "Success", env.Message)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"id":"x"},"message":"Success"}`, string(raw))
}

func TestNewListEnvelope(t *testing.T) {
	env := NewListEnvelope([]string{"a", "b"}, 42, 2, 10)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":["a","b"],"total":42,"page":2,"pageSize":10,"message":"Success"}`,
		string(raw))
}

func TestNewErrorEnvelope(t *testing.T) {
	env := NewErrorEnvelope(ErrCodeNotFound, "project not found", nil)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Equal(t, ErrCodeNotFound, env.ErrorCode)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":null,"message":"project not found","code":404,"errorCode":"NOT_FOUND"}`,
		string(raw))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeTemplateNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidInput))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrCodeAlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("SOMETHING_NEW"))
}

func TestListRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       ListRequest
		page     int
		pageSize int
	}{
		{"zero values", ListRequest{}, 1, 10},
		{"negative page", ListRequest{Page: -3, PageSize: 5}, 1, 5},
		{"oversized page size", ListRequest{Page: 2, PageSize: 500}, 2, 10},
		{"valid", ListRequest{Page: 3, PageSize: 25}, 3, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.page, tt.in.Page)
			assert.Equal(t, tt.pageSize, tt.in.PageSize)
		})
	}
}
