package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/bloghouse/tatame/internal/config"
	"github.com/bloghouse/tatame/internal/logger"
)

// Global flags
var (
	configFlag  string
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
)

// rootCmd is the base command for tatame.
var rootCmd = &cobra.Command{
	Use:   "tatame",
	Short: "Blog House client for provisioning and managing WordPress servers",
	Long: `tatame provisions fresh servers into WordPress hosts and manages your
Blog House sites from the terminal.

Point it at a brand-new VPS and it installs the full stack (nginx, PHP,
MySQL, WordOps) while streaming progress live. Or hand the server to the
hosted setup service and watch the same progress feed over the platform's
event stream.

Examples:
  tatame login
  tatame vps setup --host 203.0.113.5
  tatame site list
  tatame blog create --domain example.com`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		if verboseFlag {
			os.Setenv("TATAME_DEBUG", "1")
		}
	},
}

// Execute runs the root command and renders any error in the standard format.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default .tatame.yaml or ~/.config/tatame/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "minimal output, no live view")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
}

// applyOutputConfig folds the config file's output preferences into the
// runtime settings. Command-line flags win over the file.
func applyOutputConfig(out config.OutputConfig) {
	if !noColorFlag {
		switch out.Color {
		case "never":
			lipgloss.SetColorProfile(termenv.Ascii)
		case "always":
			lipgloss.SetColorProfile(termenv.TrueColor)
		}
	}
	if !quietFlag && !verboseFlag {
		switch out.Verbosity {
		case "quiet":
			quietFlag = true
		case "verbose":
			os.Setenv("TATAME_DEBUG", "1")
		}
	}
}

// log returns the logger commands should use.
func log() logger.Logger {
	return logger.Default()
}
