// Package sshtest provides a scripted SSH client for testing code that
// executes commands over SSH without a real connection.
package sshtest

import (
	"errors"
	"io"
	"regexp"
	"sync"
)

// CommandResponse defines a canned response for a command pattern.
type CommandResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// rule pairs a compiled pattern with its response, preserving registration order.
type rule struct {
	pattern *regexp.Regexp
	resp    CommandResponse
}

// MockClient simulates an SSH connection. Commands are matched against
// registered regex patterns in registration order; unmatched commands
// succeed with empty output.
type MockClient struct {
	mu       sync.Mutex
	host     string
	rules    []rule
	executed []string
	closed   bool
}

// NewMockClient creates a mock SSH client for the given host.
func NewMockClient(host string) *MockClient {
	return &MockClient{host: host}
}

// Respond registers a canned response for commands matching pattern (regex).
func (m *MockClient) Respond(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule{pattern: regexp.MustCompile(pattern), resp: resp})
}

// Executed returns the commands run so far, in order.
func (m *MockClient) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.executed))
	copy(out, m.executed)
	return out
}

// Closed reports whether Close has been called.
func (m *MockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Exec matches the command against registered patterns and returns the
// canned response, or empty success if nothing matches.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}
	m.executed = append(m.executed, cmd)

	for _, r := range m.rules {
		if r.pattern.MatchString(cmd) {
			return []byte(r.resp.Stdout), []byte(r.resp.Stderr), r.resp.ExitCode, r.resp.Err
		}
	}
	return nil, nil, 0, nil
}

// ExecStream runs the command and writes the canned output to the writers.
func (m *MockClient) ExecStream(cmd string, stdout, stderr io.Writer) (exitCode int, err error) {
	out, errOut, code, execErr := m.Exec(cmd)
	if execErr != nil {
		return -1, execErr
	}
	if stdout != nil && len(out) > 0 {
		if _, werr := stdout.Write(out); werr != nil {
			return -1, werr
		}
	}
	if stderr != nil && len(errOut) > 0 {
		if _, werr := stderr.Write(errOut); werr != nil {
			return -1, werr
		}
	}
	return code, nil
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string { return m.host }

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string { return m.host + ":22" }
