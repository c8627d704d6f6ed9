package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-5))
	assert.Equal(t, 0, ClampPercent(0))
	assert.Equal(t, 42, ClampPercent(42))
	assert.Equal(t, 100, ClampPercent(100))
	assert.Equal(t, 100, ClampPercent(250))
}

func TestRenderBar(t *testing.T) {
	bar := RenderBar(50, 10)
	assert.Equal(t, 5, strings.Count(bar, string(BarFilled)))
	assert.Equal(t, 5, strings.Count(bar, string(BarEmpty)))
	assert.Contains(t, bar, "[")
	assert.Contains(t, bar, "]")
}

func TestRenderBar_Extremes(t *testing.T) {
	assert.Equal(t, "", RenderBar(50, 0))

	full := RenderBar(100, 8)
	assert.Equal(t, 8, strings.Count(full, string(BarFilled)))
	assert.Equal(t, 0, strings.Count(full, string(BarEmpty)))

	empty := RenderBar(0, 8)
	assert.Equal(t, 0, strings.Count(empty, string(BarFilled)))
	assert.Equal(t, 8, strings.Count(empty, string(BarEmpty)))
}

func TestProgressColor(t *testing.T) {
	assert.Equal(t, ColorSecondary, ProgressColor(10))
	assert.Equal(t, ColorWarning, ProgressColor(65))
	assert.Equal(t, ColorSuccess, ProgressColor(95))
}
