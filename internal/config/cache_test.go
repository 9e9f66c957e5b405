package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMethods(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]bool
	}{
		{"single", "GET", map[string]bool{"GET": true}},
		{"mixed case and spaces", " get , Head ", map[string]bool{"GET": true, "HEAD": true}},
		{"empty entries dropped", "GET,,", map[string]bool{"GET": true}},
		{"empty string", "", map[string]bool{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMethods(tt.in))
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD", "not-a-number")

	assert.Equal(t, "value", envStr("X_STR", "d"))
	assert.Equal(t, "d", envStr("X_MISSING", "d"))

	assert.True(t, envBool("X_BOOL", false))
	assert.True(t, envBool("X_MISSING", true))
	assert.False(t, envBool("X_BAD", false)) // unparseable keeps the default

	assert.Equal(t, 42, envInt("X_INT", 7))
	assert.Equal(t, 7, envInt("X_BAD", 7))

	assert.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	assert.Equal(t, time.Second, envDur("X_BAD", time.Second))
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "cache", cfg.Prefix)
}
