package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bloghouse/tatame/internal/api"
	"github.com/bloghouse/tatame/internal/errors"
	"github.com/bloghouse/tatame/internal/ui"
	"github.com/bloghouse/tatame/internal/util"
)

var (
	siteCreateDomainFlag string
	siteCreateTitleFlag  string
	siteUpdateTitleFlag  string
	siteUpdateStatusFlag string
	siteDeleteYesFlag    bool
)

// siteCmd groups WordPress site management commands.
var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage your WordPress sites",
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		return siteListCommand(cmd.Context())
	},
}

var siteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one site's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return siteShowCommand(cmd.Context(), args[0])
	},
}

var siteCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a site record",
	Long: `Register a new WordPress site on the platform.

Unlike 'tatame blog create', this only creates the platform record; it
doesn't run an install on a server.

Examples:
  tatame site create --domain example.com --title "My Blog"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return siteCreateCommand(cmd.Context())
	},
}

var siteUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a site's title or status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return siteUpdateCommand(cmd.Context(), args[0])
	},
}

var siteDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return siteDeleteCommand(cmd.Context(), args[0])
	},
}

func siteListCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	sites, err := a.client.ListSites(ctx)
	if err != nil {
		return err
	}

	renderSiteList(cmdOut(), sites)
	return nil
}

// renderSiteList prints one line per site plus a count summary.
func renderSiteList(w io.Writer, sites []api.Site) {
	if len(sites) == 0 {
		fmt.Fprintln(w, "No sites yet. Create one with 'tatame blog create'.")
		return
	}

	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, site := range sites {
		fmt.Fprintf(w, "%s %s %s\n",
			statusSymbol(site.Status),
			site.Domain,
			muted.Render(site.ID),
		)
	}
	fmt.Fprintf(w, "\n%d %s\n", len(sites), util.Pluralize(len(sites), "site", "sites"))
}

func siteShowCommand(ctx context.Context, id string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	site, err := a.client.GetSite(ctx, id)
	if err != nil {
		return err
	}

	out := cmdOut()
	fmt.Fprintf(out, "Domain:  %s\n", site.Domain)
	fmt.Fprintf(out, "Title:   %s\n", site.Title)
	fmt.Fprintf(out, "Status:  %s\n", site.Status)
	if site.VPSID != "" {
		fmt.Fprintf(out, "Server:  %s\n", site.VPSID)
	}
	fmt.Fprintf(out, "Created: %s\n", site.CreatedAt.Format("2006-01-02"))
	return nil
}

func siteCreateCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if siteCreateDomainFlag == "" {
		return errors.New(errors.ErrValidate,
			"A domain is required",
			"Pass --domain example.com")
	}

	site, err := a.client.CreateSite(ctx, api.CreateSiteRequest{
		Domain: siteCreateDomainFlag,
		Title:  siteCreateTitleFlag,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmdOut(), "✓ Created %s (%s)\n", site.Domain, site.ID)
	return nil
}

func siteUpdateCommand(ctx context.Context, id string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if siteUpdateTitleFlag == "" && siteUpdateStatusFlag == "" {
		return errors.New(errors.ErrValidate,
			"Nothing to update",
			"Pass --title or --status.")
	}

	site, err := a.client.UpdateSite(ctx, id, api.UpdateSiteRequest{
		Title:  siteUpdateTitleFlag,
		Status: siteUpdateStatusFlag,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmdOut(), "✓ Updated %s (%s)\n",
		site.Domain, updatedFields(siteUpdateTitleFlag, siteUpdateStatusFlag))
	return nil
}

// updatedFields names the fields an update touched.
func updatedFields(title, status string) string {
	var changed []string
	if title != "" {
		changed = append(changed, "title")
	}
	if status != "" {
		changed = append(changed, "status")
	}
	return util.JoinOrDefault(changed, "no changes")
}

func siteDeleteCommand(ctx context.Context, id string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !siteDeleteYesFlag {
		return errors.New(errors.ErrValidate,
			"Deleting a site cannot be undone",
			"Re-run with --yes to confirm.")
	}

	if err := a.client.DeleteSite(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(cmdOut(), "✓ Deleted site %s\n", id)
	return nil
}

// statusSymbol maps a site status to its colored symbol.
func statusSymbol(status string) string {
	switch status {
	case "active":
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.SymbolSuccess)
	case "provisioning":
		return lipgloss.NewStyle().Foreground(ui.ColorSecondary).Render(ui.SymbolProgress)
	case "error":
		return lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.SymbolFail)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(ui.SymbolPending)
	}
}

func init() {
	siteCreateCmd.Flags().StringVar(&siteCreateDomainFlag, "domain", "", "domain for the new site")
	siteCreateCmd.Flags().StringVar(&siteCreateTitleFlag, "title", "", "site title")

	siteUpdateCmd.Flags().StringVar(&siteUpdateTitleFlag, "title", "", "new site title")
	siteUpdateCmd.Flags().StringVar(&siteUpdateStatusFlag, "status", "", "new site status")

	siteDeleteCmd.Flags().BoolVar(&siteDeleteYesFlag, "yes", false, "skip the confirmation")

	siteCmd.AddCommand(siteListCmd)
	siteCmd.AddCommand(siteShowCmd)
	siteCmd.AddCommand(siteCreateCmd)
	siteCmd.AddCommand(siteUpdateCmd)
	siteCmd.AddCommand(siteDeleteCmd)
	rootCmd.AddCommand(siteCmd)
}
