package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'example.com'", ShellQuote("example.com"))
	assert.Equal(t, "''", ShellQuote(""))
	assert.Equal(t, "'it'\\''s'", ShellQuote("it's"))
	assert.Equal(t, "'a b'", ShellQuote("a b"))
}
