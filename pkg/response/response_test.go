package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/ratelimit"
	"github.com/maxviazov/winmix-match-service/internal/repository"
	"github.com/maxviazov/winmix-match-service/internal/service"
	"github.com/maxviazov/winmix-match-service/pkg/response"
)

func TestMapError(t *testing.T) {
	queryErr := engine.QueryParams{Page: model.Page{Size: 0}}.Validate()
	require.Error(t, queryErr)

	cases := []struct {
		name       string
		in         error
		wantCode   int
		wantErr    string
		wantFields bool
	}{
		{"invalid_input", service.NewInvalidInputError([]service.FieldError{{Field: "home_team", Message: "bad"}}), 400, "invalid_input", true},
		{"invalid_query", queryErr, 400, "invalid_input", true},
		{"empty_export", engine.ErrEmptyExport, 422, "empty_export", false},
		{"rate_limited", ratelimit.ErrRateLimited, 429, "rate_limited", false},
		{"not_found", repository.ErrNotFound, 404, "not_found", false},
		{"already_exists", repository.ErrAlreadyExists, 409, "already_exists", false},
		{"conflict", repository.ErrConflict, 409, "conflict", false},
		{"unavailable_wrapped", fmt.Errorf("list: %w", repository.ErrUnavailable), 503, "unavailable", false},
		{"internal", errors.New("boom"), 500, "internal_error", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantErr, payload.Error)
			if tc.wantFields {
				assert.NotEmpty(t, payload.FieldErrors)
			} else {
				assert.Empty(t, payload.FieldErrors)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	code, payload := response.MapError(nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", payload.Error)
}

func TestWriteError_AbortsWithPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	response.WriteError(c, engine.ErrEmptyExport)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"empty_export","message":"no matches for the current filters"}`, w.Body.String())
	assert.Empty(t, c.Errors)
}

func TestWriteError_RecordsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	response.WriteError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "boom")
}
