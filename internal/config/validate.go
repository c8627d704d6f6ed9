package config

import (
	"fmt"
	"strings"

	"github.com/bloghouse/tatame/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected. Try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but tatame only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest tatame release.")
	}

	if err := validateAPI(cfg.API); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'api' section in your .tatame.yaml.")
	}

	if err := validateSSH(cfg.SSH); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'ssh' section in your .tatame.yaml.")
	}

	if err := validateBlog(cfg.Blog); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'blog' section in your .tatame.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'output' section in your .tatame.yaml.")
	}

	return nil
}

func validateAPI(api APIConfig) error {
	if api.URL == "" {
		return fmt.Errorf("api.url can't be empty")
	}
	if !strings.HasPrefix(api.URL, "http://") && !strings.HasPrefix(api.URL, "https://") {
		return fmt.Errorf("api.url '%s' should start with http:// or https://", api.URL)
	}
	if api.SocketURL != "" && !hasStreamScheme(api.SocketURL) {
		return fmt.Errorf("api.socket_url '%s' should start with http(s):// or ws(s)://", api.SocketURL)
	}
	if api.Timeout < 0 {
		return fmt.Errorf("api.timeout can't be negative")
	}
	return nil
}

func hasStreamScheme(url string) bool {
	for _, scheme := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

func validateSSH(ssh SSHConfig) error {
	if ssh.Timeout < 0 {
		return fmt.Errorf("ssh.timeout can't be negative")
	}
	if strings.ContainsAny(ssh.User, " @") {
		return fmt.Errorf("ssh.user '%s' should be a bare username, not an SSH string", ssh.User)
	}
	return nil
}

func validateBlog(blog BlogConfig) error {
	if blog.AdminEmail != "" && !strings.Contains(blog.AdminEmail, "@") {
		return fmt.Errorf("blog.admin_email '%s' doesn't look like an email address", blog.AdminEmail)
	}
	if blog.Domain != "" && strings.ContainsAny(blog.Domain, " /") {
		return fmt.Errorf("blog.domain '%s' should be a bare domain like 'example.com'", blog.Domain)
	}
	return nil
}

func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid. Use 'auto', 'always', or 'never'", out.Color)
	}

	validVerbosity := map[string]bool{"quiet": true, "normal": true, "verbose": true, "": true}
	if !validVerbosity[out.Verbosity] {
		return fmt.Errorf("output.verbosity '%s' isn't valid. Use 'quiet', 'normal', or 'verbose'", out.Verbosity)
	}

	return nil
}
