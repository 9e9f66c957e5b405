package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashline/cigar-cellar/internal/auth"
	"github.com/ashline/cigar-cellar/internal/utils"
)

const testSecret = "unit-test-secret"

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, auth.Actor, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cigars", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got auth.Actor
	var reached bool
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		got, reached = CurrentActor(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, got, reached
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 42, true, 5)
	require.NoError(t, err)

	rec, actor, reached := runJWT(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached)
	assert.Equal(t, uint64(42), actor.ID)
	assert.True(t, actor.Admin)
}

func TestJWTAuthRejects(t *testing.T) {
	wrong, err := utils.NewAccessToken("other-secret", 42, false, 5)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(testSecret, 42, false, -5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + wrong.Token},
		{"expired", "Bearer " + expired.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, reached := runJWT(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, reached)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	run := func(actor *auth.Actor) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/brands", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if actor != nil {
			c.Set("actor", *actor)
		}
		h := RequireAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rec
	}

	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run(&auth.Actor{ID: 5}).Code)
	assert.Equal(t, http.StatusOK, run(&auth.Actor{ID: 5, Admin: true}).Code)
}
