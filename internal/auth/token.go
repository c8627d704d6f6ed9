// Package auth resolves and persists the Blog House bearer token.
//
// Resolution order at connect time mirrors the platform's web client:
// an explicit environment override, then the access_token cookie from the
// browser-exported cookie file, then the token persisted by 'tatame login'.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bloghouse/tatame/internal/errors"
)

const (
	// EnvToken overrides all stored tokens when set.
	EnvToken = "TATAME_TOKEN"

	// CookieName is the session cookie the platform sets on login.
	CookieName = "access_token"

	tokenFileName  = "token"
	cookieFileName = "cookies.txt"
)

// TokenSource resolves a bearer token for API and transport authentication.
type TokenSource interface {
	Token() (string, error)
}

// FileTokenSource resolves tokens from the config directory.
type FileTokenSource struct {
	dir string
}

// NewFileTokenSource creates a source rooted at dir. If dir is empty, the
// default config directory (~/.config/tatame) is used.
func NewFileTokenSource(dir string) *FileTokenSource {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileTokenSource{dir: dir}
}

// DefaultDir returns the default tatame config directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "tatame")
}

// Token resolves the bearer token: env override, cookie file, token file.
func (s *FileTokenSource) Token() (string, error) {
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok, nil
	}

	if tok := readCookieToken(filepath.Join(s.dir, cookieFileName)); tok != "" {
		return tok, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if err == nil {
		if tok := strings.TrimSpace(string(data)); tok != "" {
			return tok, nil
		}
	}

	return "", errors.New(errors.ErrAuth,
		"Not logged in to Blog House",
		"Run 'tatame login' or set "+EnvToken+".")
}

// Save persists the token for later runs.
func (s *FileTokenSource) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New(errors.ErrAuth, "Token is empty", "Provide a non-empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.WrapWithCode(err, errors.ErrAuth,
			"Couldn't create config directory",
			"Check permissions on "+s.dir)
	}
	path := filepath.Join(s.dir, tokenFileName)
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrAuth,
			"Couldn't write token file",
			"Check permissions on "+path)
	}
	return nil
}

// Clear removes the persisted token.
func (s *FileTokenSource) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tokenFileName))
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrAuth, "Couldn't remove token file", "")
	}
	return nil
}

// readCookieToken extracts the access_token value from a Netscape-format
// cookie file. Returns empty if the file is missing or has no such cookie.
func readCookieToken(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// domain, include-subdomains, path, secure, expiry, name, value
		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}
		if fields[5] == CookieName {
			return fields[6]
		}
	}
	return ""
}

// StaticTokenSource returns a fixed token. Used in tests and for one-off
// token overrides on the command line.
type StaticTokenSource string

// Token returns the static token.
func (s StaticTokenSource) Token() (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty token")
	}
	return string(s), nil
}
