package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashline/cigar-cellar/internal/repository"
)

func errCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRepoErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate hash", repository.ErrDuplicateHash, http.StatusConflict},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"cycle detected", repository.ErrCycleDetected, http.StatusConflict},
		{"row in use", repository.ErrInUse, http.StatusConflict},
		{"dangling reference", repository.ErrDanglingRef, http.StatusBadRequest},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"cigar not found", repository.ErrCigarNotFound, http.StatusNotFound},
		{"brand not found", repository.ErrBrandNotFound, http.StatusNotFound},
		{"session not found", repository.ErrSessionNotFound, http.StatusNotFound},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), repository.ErrInUse), http.StatusConflict},
		{"unknown error", errors.New("driver exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := errCtx(t)
			require.NoError(t, repoError(c, tt.err))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRepoErrorHidesInternalDetail(t *testing.T) {
	c, rec := errCtx(t)
	require.NoError(t, repoError(c, errors.New("dial tcp 10.0.0.3:3306: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}
