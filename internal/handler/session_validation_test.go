package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashline/cigar-cellar/internal/auth"
)

// postJSON builds an authenticated POST context. Validation failures
// never reach the repositories, so the handler can run with nil ones.
func postJSON(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor", auth.Actor{ID: 1})
	return c, rec
}

func TestSessionLogValidation(t *testing.T) {
	h := &SessionHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"no entries", `{"date":"2026-08-29","entries":[]}`},
		{"entry without cigar", `{"entries":[{"app_score":10}]}`},
		{"negative score", `{"entries":[{"cigar_id":1,"taste_score":-2}]}`},
		{"bad date", `{"date":"29/08/2026","entries":[{"cigar_id":1}]}`},
		{"not json", `date=today`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/v1/sessions", tt.body)
			require.NoError(t, h.Log(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSessionLogUnauthenticated(t *testing.T) {
	h := &SessionHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Log(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIntakeValidation(t *testing.T) {
	h := &CigarHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"missing references", `{"hash":""}`},
		{"short hash", `{"hash":"abc","product_id":1,"size_id":1,"location_id":1}`},
		{"bad purchase date", `{"product_id":1,"size_id":1,"location_id":1,"purchase_date":"soon"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := postJSON(t, "/v1/cigars", tt.body)
			require.NoError(t, h.Intake(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
