package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghouse/tatame/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
version: 1
api:
  url: https://staging.bloghouse.io
  socket_url: wss://staging.bloghouse.io/events
  timeout: 45s
ssh:
  user: ubuntu
  timeout: 20s
blog:
  domain: example.com
  admin_user: editor
  admin_email: editor@example.com
output:
  color: never
  verbosity: verbose
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.bloghouse.io", cfg.API.URL)
	assert.Equal(t, "wss://staging.bloghouse.io/events", cfg.API.SocketURL)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout)
	assert.Equal(t, "ubuntu", cfg.SSH.User)
	assert.Equal(t, 20*time.Second, cfg.SSH.Timeout)
	assert.Equal(t, "example.com", cfg.Blog.Domain)
	assert.Equal(t, "editor", cfg.Blog.AdminUser)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, "verbose", cfg.Output.Verbosity)
}

func TestLoad_PartialConfigMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
blog:
  domain: example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://app.bloghouse.io", cfg.API.URL)
	assert.Equal(t, "root", cfg.SSH.User)
	assert.Equal(t, "admin", cfg.Blog.AdminUser)
	assert.Equal(t, "example.com", cfg.Blog.Domain)
	assert.Equal(t, "auto", cfg.Output.Color)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [not: valid")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_ExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestEventsURL(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://app.bloghouse.io/events", cfg.EventsURL())

	cfg.API.SocketURL = "wss://other.example.com/stream"
	assert.Equal(t, "wss://other.example.com/stream", cfg.EventsURL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty api url",
			mutate:  func(c *Config) { c.API.URL = "" },
			wantErr: "api.url",
		},
		{
			name:    "bad api scheme",
			mutate:  func(c *Config) { c.API.URL = "ftp://x" },
			wantErr: "http:// or https://",
		},
		{
			name:    "bad socket scheme",
			mutate:  func(c *Config) { c.API.SocketURL = "tcp://x" },
			wantErr: "socket_url",
		},
		{
			name:   "ws socket url ok",
			mutate: func(c *Config) { c.API.SocketURL = "wss://x/events" },
		},
		{
			name:    "ssh user with at sign",
			mutate:  func(c *Config) { c.SSH.User = "root@host" },
			wantErr: "bare username",
		},
		{
			name:    "negative ssh timeout",
			mutate:  func(c *Config) { c.SSH.Timeout = -time.Second },
			wantErr: "ssh.timeout",
		},
		{
			name:    "bad admin email",
			mutate:  func(c *Config) { c.Blog.AdminEmail = "not-an-email" },
			wantErr: "admin_email",
		},
		{
			name:    "domain with path",
			mutate:  func(c *Config) { c.Blog.Domain = "example.com/blog" },
			wantErr: "bare domain",
		},
		{
			name:    "bad color mode",
			mutate:  func(c *Config) { c.Output.Color = "rainbow" },
			wantErr: "output.color",
		},
		{
			name:    "bad verbosity",
			mutate:  func(c *Config) { c.Output.Verbosity = "loud" },
			wantErr: "output.verbosity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), ExpandTilde("~/x"))
	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
	assert.Equal(t, "", ExpandTilde(""))
}
