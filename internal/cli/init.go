package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bloghouse/tatame/internal/config"
	"github.com/bloghouse/tatame/internal/errors"
)

var initForceFlag bool

// initCmd creates a new .tatame.yaml configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .tatame.yaml configuration",
	Long: `Initialize a tatame configuration file.

Creates a .tatame.yaml in the current directory with your site defaults.
All values are optional; tatame works without a config file.

Examples:
  tatame init
  tatame init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForceFlag)
	},
}

func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		if !interactive() {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if interactive() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Default site domain (optional)").
					Description("Used by 'tatame blog create' and 'tatame vps setup'").
					Placeholder("example.com").
					Value(&cfg.Blog.Domain),
				huh.NewInput().
					Title("WordPress admin user").
					Value(&cfg.Blog.AdminUser),
				huh.NewInput().
					Title("WordPress admin email (optional)").
					Placeholder("you@example.com").
					Value(&cfg.Blog.AdminEmail).
					Validate(func(s string) error {
						if s != "" && !strings.Contains(s, "@") {
							return fmt.Errorf("doesn't look like an email address")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Re-run and fill in the prompts, or edit .tatame.yaml by hand")
		}
	}

	if err := writeConfigFile(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s\n", configPath)
	return nil
}

// configDoc is the subset written by init. Durations are left for users to
// add by hand (they read better as "30s" than as marshalled nanoseconds).
type configDoc struct {
	Version int `yaml:"version"`
	API     struct {
		URL string `yaml:"url"`
	} `yaml:"api"`
	Blog   config.BlogConfig   `yaml:"blog"`
	Output config.OutputConfig `yaml:"output"`
}

// writeConfigFile marshals the config to YAML.
func writeConfigFile(path string, cfg *config.Config) error {
	var doc configDoc
	doc.Version = cfg.Version
	doc.API.URL = cfg.API.URL
	doc.Blog = cfg.Blog
	doc.Output = cfg.Output

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config", "")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check directory permissions")
	}
	return nil
}

func init() {
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}
