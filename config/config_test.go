package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "memory", c.SessionBackend)
	assert.Equal(t, "folio_session", c.SessionCookie)
	assert.Equal(t, 168, c.SessionTTLHours)
	assert.Equal(t, 12, c.PostsPerPage)
	assert.Equal(t, 10, c.APITimeoutSec)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
}

func TestLoadFromGroupedJSON(t *testing.T) {
	path := writeJSON(t, `{
		"app": {"AppPort": "9000", "CaptchaEnabled": true, "AllowedOrigins": ["https://a.dev"]},
		"api": {"BaseURL": "https://api.example.com/api", "TimeoutSec": 3},
		"session": {"Backend": "redis", "TTLHours": 2},
		"site": {"Name": "Folio", "PostsPerPage": 6},
		"log": {"Level": "debug", "Compress": true}
	}`)

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", c.AppPort)
	assert.True(t, c.CaptchaEnabled)
	assert.Equal(t, []string{"https://a.dev"}, c.AllowedOrigins)
	assert.Equal(t, "https://api.example.com/api", c.APIBaseURL)
	assert.Equal(t, 3, c.APITimeoutSec)
	assert.Equal(t, "redis", c.SessionBackend)
	assert.Equal(t, 2, c.SessionTTLHours)
	assert.Equal(t, "Folio", c.SiteName)
	assert.Equal(t, 6, c.PostsPerPage)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogCompress)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := writeJSON(t, `{"api": {"BaseURL": "https://file.example.com"}, "session": {"Backend": "memory"}}`)
	t.Setenv("API_BASE_URL", "https://env.example.com/api/")
	t.Setenv("SESSION_BACKEND", "SQL")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://x.dev, ,https://y.dev")
	t.Setenv("COOKIE_SECURE", "true")

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", c.APIBaseURL)
	assert.Equal(t, "sql", c.SessionBackend)
	assert.Equal(t, []string{"https://x.dev", "https://y.dev"}, c.AllowedOrigins)
	assert.True(t, c.CookieSecure)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	_, err := LoadFrom(writeJSON(t, `{"app":`))
	assert.Error(t, err)
}
