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

// hashCtx builds an authenticated context with a :hash path parameter.
// A bad hash is rejected before any repository is touched, so the
// handlers under test can run with nil ones.
func hashCtx(t *testing.T, method, hash, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("hash")
	c.SetParamValues(hash)
	c.Set("actor", auth.Actor{ID: 1})
	return c, rec
}

// Every hash-keyed endpoint must reject a malformed hash the same way,
// the ratings listing included.
func TestHashKeyedEndpointsRejectBadHash(t *testing.T) {
	ch := &CigarHandler{}
	sh := &SessionHandler{}

	endpoints := []struct {
		name string
		call func(echo.Context) error
	}{
		{"get by hash", ch.GetByHash},
		{"move", ch.Move},
		{"smoke", ch.Smoke},
		{"transfers", ch.ListTransfers},
		{"ratings by cigar", sh.CigarRatings},
	}
	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			c, rec := hashCtx(t, http.MethodGet, "not-a-hash", "")
			require.NoError(t, ep.call(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSmokeRejectsMalformedBody(t *testing.T) {
	h := &CigarHandler{}
	hash := strings.Repeat("ab", 32)

	c, rec := hashCtx(t, http.MethodPost, hash, `{"smoked":"yes please"}`)
	require.NoError(t, h.Smoke(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
