package cli

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bloghouse/tatame/internal/api"
	"github.com/bloghouse/tatame/internal/errors"
	"github.com/bloghouse/tatame/internal/session"
)

var (
	blogDomainFlag string
	blogTitleFlag  string
)

// blogCmd groups hosted blog operations.
var blogCmd = &cobra.Command{
	Use:   "blog",
	Short: "Create blogs on your provisioned servers",
}

// blogCreateCmd asks the platform to create a WordPress site and follows
// the progress stream.
var blogCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new WordPress blog",
	Long: `Create a WordPress site on a server you've already provisioned.
The platform runs the site creation and streams progress back live.

Examples:
  tatame blog create --domain example.com
  tatame blog create --domain example.com --title "My Blog"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return blogCreateCommand(cmd.Context())
	},
}

func blogCreateCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	domain := blogDomainFlag
	title := blogTitleFlag
	if domain == "" {
		domain = a.cfg.Blog.Domain
	}

	if domain == "" {
		if !interactive() {
			return errors.New(errors.ErrValidate,
				"A domain is required",
				"Pass --domain, or set blog.domain in your config.")
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Domain").
					Placeholder("example.com").
					Value(&domain).
					Validate(required("domain")),
				huh.NewInput().
					Title("Site title (optional)").
					Value(&title),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrValidate,
				"Failed to read blog details",
				"Pass them as flags instead: --domain, --title.")
		}
	}

	sock, events, err := followEvents(ctx, a)
	if err != nil {
		return err
	}
	defer sock.Close()

	started, err := a.client.BlogSimpleCreate(ctx, api.SimpleCreateRequest{
		Domain: domain,
		Title:  title,
	})
	if err != nil {
		return err
	}
	if err := sock.Subscribe(started.Channel); err != nil {
		return err
	}
	log().Debug("blog create session %s on channel %s", started.SessionID, started.Channel)

	sess := session.New(domain)
	sess.Start()

	return watchSession(sess, events)
}

func init() {
	blogCreateCmd.Flags().StringVar(&blogDomainFlag, "domain", "", "domain for the new blog")
	blogCreateCmd.Flags().StringVar(&blogTitleFlag, "title", "", "site title")

	blogCmd.AddCommand(blogCreateCmd)
	rootCmd.AddCommand(blogCmd)
}
