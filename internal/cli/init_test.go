package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghouse/tatame/internal/config"
)

func TestWriteConfigFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Blog.Domain = "example.com"
	cfg.Blog.AdminEmail = "me@example.com"

	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, writeConfigFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "example.com")
	assert.Contains(t, string(data), "app.bloghouse.io")

	// The written file must load back cleanly.
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com", loaded.Blog.Domain)
	assert.Equal(t, "me@example.com", loaded.Blog.AdminEmail)
	assert.Equal(t, "https://app.bloghouse.io", loaded.API.URL)
}
