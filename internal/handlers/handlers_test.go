package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/stackit-qa/backend/internal/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation maps to 400", apperror.Validation("title", "too short"), http.StatusBadRequest},
		{"unauthenticated maps to 401", apperror.Unauthenticated("no token"), http.StatusUnauthorized},
		{"forbidden maps to 403", apperror.Forbidden("not yours"), http.StatusForbidden},
		{"not found maps to 404", apperror.NotFound("Question"), http.StatusNotFound},
		{"conflict maps to 409", apperror.Conflict("already deleted"), http.StatusConflict},
		{"unknown maps to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusCode(tt.err))
		})
	}
}

func TestRespondError(t *testing.T) {
	t.Run("validation error includes field details", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, apperror.Validation("tags", "At least one valid tag is required"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
		assert.Contains(t, w.Body.String(), `"field":"tags"`)
	})

	t.Run("unexpected error hides internals", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestParamID(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  int
		valid bool
	}{
		{"numeric id", "42", 42, true},
		{"garbage", "abc", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.raw}}

			id, ok := paramID(c, "id")
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, id)
			if !tt.valid {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"simple list", "go,sql", []string{"go", "sql"}},
		{"trimmed and lowercased", " Go , SQL ", []string{"go", "sql"}},
		{"empty parts dropped", "go,,sql,", []string{"go", "sql"}},
		{"all empty", ",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTags(tt.raw))
		})
	}
}

func TestExcerpt(t *testing.T) {
	short := "a short description"
	assert.Equal(t, short, excerpt(short))

	long := strings.Repeat("x", 300)
	got := excerpt(long)
	assert.Len(t, got, listExcerptLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
