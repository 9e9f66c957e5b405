package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashline/cigar-cellar/internal/auth"
	"github.com/ashline/cigar-cellar/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"id":1}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"truncated preamble", []byte{0, 0, 1}},
		{"header length past end", []byte{0, 0, 0, 200, 0, 0, 0, 99, 'x'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, ok := decodePayload(tt.in)
			assert.False(t, ok)
		})
	}
}

func newCtx(t *testing.T, method, target string, actor *auth.Actor) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(target)
	if actor != nil {
		c.Set("actor", *actor)
	}
	return c
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	a := newCtx(t, http.MethodGet, "/v1/cigars", &auth.Actor{ID: 1})
	b := newCtx(t, http.MethodGet, "/v1/cigars", &auth.Actor{ID: 2})

	assert.NotEqual(t, cacheKey(cfg, a), cacheKey(cfg, b))
}

func TestCacheKeyStablePerRequest(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	a := newCtx(t, http.MethodGet, "/v1/cigars", &auth.Actor{ID: 1})
	b := newCtx(t, http.MethodGet, "/v1/cigars", &auth.Actor{ID: 1})

	assert.Equal(t, cacheKey(cfg, a), cacheKey(cfg, b))
}

func TestNewRedisCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := newCtx(t, http.MethodGet, "/v1/cigars", nil)
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}
