package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bloghouse/tatame/internal/api"
	"github.com/bloghouse/tatame/internal/auth"
	"github.com/bloghouse/tatame/internal/errors"
)

var loginTokenFlag string

// loginCmd stores the Blog House access token for later commands.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store your Blog House access token",
	Long: `Authenticate tatame with your Blog House account.

Grab an access token from your account settings (or the access_token
cookie in your browser) and paste it here. The token is stored in
~/.config/tatame and used for every API call.

Examples:
  tatame login
  tatame login --token eyJhbGci...
  TATAME_TOKEN=eyJhbGci... tatame site list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginCommand(cmd.Context(), loginTokenFlag)
	},
}

// logoutCmd removes the stored token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logoutCommand()
	},
}

func loginCommand(ctx context.Context, token string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if token == "" {
		if !interactive() {
			return errors.New(errors.ErrAuth,
				"No token provided",
				"Pass --token, or run interactively to be prompted.")
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Access token").
					Description("From your Blog House account settings").
					EchoMode(huh.EchoModePassword).
					Value(&token).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("token is required")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrAuth,
				"Failed to read token",
				"Try passing it with --token instead.")
		}
	}

	if err := verifyAndStore(ctx, a, token); err != nil {
		return err
	}

	fmt.Println("✓ Logged in to Blog House")
	return nil
}

// verifyAndStore checks the token against the platform and persists it only
// when the platform accepts it, so a rejected token never replaces a
// working one.
func verifyAndStore(ctx context.Context, a *app, token string) error {
	token = strings.TrimSpace(token)

	check := api.NewClient(a.cfg.API.URL, auth.StaticTokenSource(token),
		api.WithLogger(log()))
	if _, err := check.ListSites(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrAuth,
			"Blog House rejected that token",
			"Check the token hasn't expired and try again.")
	}

	return a.tokens.Save(token)
}

func logoutCommand() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Println("✓ Logged out")
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginTokenFlag, "token", "", "access token (prompted for if omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
