package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .tatame.yaml configuration file.
type Config struct {
	Version int          `yaml:"version" mapstructure:"version"`
	API     APIConfig    `yaml:"api" mapstructure:"api"`
	SSH     SSHConfig    `yaml:"ssh" mapstructure:"ssh"`
	Blog    BlogConfig   `yaml:"blog" mapstructure:"blog"`
	Auth    AuthConfig   `yaml:"auth" mapstructure:"auth"`
	Output  OutputConfig `yaml:"output" mapstructure:"output"`
}

// APIConfig points the client at a Blog House deployment.
type APIConfig struct {
	// URL is the platform base URL.
	URL string `yaml:"url" mapstructure:"url"`

	// SocketURL is the realtime event endpoint. Defaults to URL + /events.
	SocketURL string `yaml:"socket_url" mapstructure:"socket_url"`

	// Timeout bounds each REST request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SSHConfig controls direct provisioning connections.
type SSHConfig struct {
	// User is the login user for fresh servers.
	User string `yaml:"user" mapstructure:"user"`

	// Timeout bounds the SSH dial.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// BlogConfig carries defaults applied when creating sites.
type BlogConfig struct {
	// Domain is the default domain for 'tatame blog create'.
	Domain string `yaml:"domain" mapstructure:"domain"`

	// AdminUser is the default WordPress admin username.
	AdminUser string `yaml:"admin_user" mapstructure:"admin_user"`

	// AdminEmail is the default WordPress admin email.
	AdminEmail string `yaml:"admin_email" mapstructure:"admin_email"`
}

// AuthConfig controls credential storage.
type AuthConfig struct {
	// Dir overrides the token/cookie directory (~/.config/tatame).
	// Supports ~ for the home directory.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// Verbosity level: "quiet", "normal", or "verbose".
	Verbosity string `yaml:"verbosity" mapstructure:"verbosity"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			URL:     "https://app.bloghouse.io",
			Timeout: 30 * time.Second,
		},
		SSH: SSHConfig{
			User:    "root",
			Timeout: 10 * time.Second,
		},
		Blog: BlogConfig{
			AdminUser: "admin",
		},
		Output: OutputConfig{
			Color:     "auto",
			Verbosity: "normal",
		},
	}
}

// EventsURL returns the realtime endpoint, deriving it from the base URL
// when no explicit socket URL is configured.
func (c *Config) EventsURL() string {
	if c.API.SocketURL != "" {
		return c.API.SocketURL
	}
	return c.API.URL + "/events"
}
