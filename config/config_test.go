package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/config"
	"newsdesk/models"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
[server]
port = 8080

[timeouts]
feed_seconds = 7
image_seconds = 3

[[sources]]
url = "https://example.com/rss"
name = "Example"
region = "domestic"

[[sources]]
url = "https://example.org/atom"
name = "Example Org"
region = "international"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port())
	assert.Equal(t, 7*time.Second, cfg.FeedTimeout())
	assert.Equal(t, 3*time.Second, cfg.ImageTimeout())
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "Example", cfg.Sources[0].Name)
	assert.Equal(t, models.RegionDomestic, cfg.Sources[0].Region)
	assert.Equal(t, models.RegionInternational, cfg.Sources[1].Region)
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[[sources]]
url = "https://example.com/rss"
name = "Example"
region = "domestic"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port())
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout())
	assert.Equal(t, 5*time.Second, cfg.ImageTimeout())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown region",
			content: `
[[sources]]
url = "https://example.com/rss"
name = "Example"
region = "lunar"
`,
		},
		{
			name: "empty name",
			content: `
[[sources]]
url = "https://example.com/rss"
name = ""
region = "domestic"
`,
		},
		{
			name: "relative url",
			content: `
[[sources]]
url = "/feeds/rss"
name = "Example"
region = "domestic"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeTempConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sources.toml")

	original := &config.Config{
		Sources: []models.Source{
			{URL: "https://example.com/rss", Name: "Example", Region: models.RegionDomestic},
		},
	}
	require.NoError(t, config.Write(path, original))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.Sources, loaded.Sources)
}
