package cli

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghouse/tatame/internal/config"
)

func commandNames() []string {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	return names
}

func TestRootCommandRegistration(t *testing.T) {
	names := commandNames()

	for _, want := range []string{
		"init", "login", "logout", "vps", "blog", "site",
		"features", "notifications", "discover", "connect",
		"version", "completion",
	} {
		assert.Contains(t, names, want)
	}
}

func TestVPSSubcommands(t *testing.T) {
	var names []string
	for _, c := range vpsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "setup")
	assert.Contains(t, names, "simple-setup")
}

func TestSiteSubcommands(t *testing.T) {
	var names []string
	for _, c := range siteCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"list", "show", "create", "update", "delete"} {
		assert.Contains(t, names, want)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, flag := range []string{"config", "verbose", "quiet", "no-color"} {
		require.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestApplyOutputConfig(t *testing.T) {
	origQuiet, origVerbose, origNoColor := quietFlag, verboseFlag, noColorFlag
	origProfile := lipgloss.ColorProfile()
	t.Cleanup(func() {
		quietFlag, verboseFlag, noColorFlag = origQuiet, origVerbose, origNoColor
		lipgloss.SetColorProfile(origProfile)
	})

	// quiet verbosity in the file turns the live view off
	quietFlag, verboseFlag = false, false
	applyOutputConfig(config.OutputConfig{Color: "auto", Verbosity: "quiet"})
	assert.True(t, quietFlag)

	// an explicit --verbose wins over the file
	quietFlag, verboseFlag = false, true
	applyOutputConfig(config.OutputConfig{Color: "auto", Verbosity: "quiet"})
	assert.False(t, quietFlag)

	// verbose verbosity in the file enables debug logging
	t.Setenv("TATAME_DEBUG", "")
	quietFlag, verboseFlag = false, false
	applyOutputConfig(config.OutputConfig{Color: "auto", Verbosity: "verbose"})
	assert.Equal(t, "1", os.Getenv("TATAME_DEBUG"))

	// color "never" in the file switches rendering to plain ascii
	noColorFlag = false
	applyOutputConfig(config.OutputConfig{Color: "never", Verbosity: "normal"})
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}
