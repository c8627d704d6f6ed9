package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bloghouse/tatame/internal/ui"
)

var notificationsReadFlag string

// featuresCmd lists the account's feature flags.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Show which platform features your account has",
	RunE: func(cmd *cobra.Command, args []string) error {
		return featuresCommand(cmd.Context())
	},
}

// notificationsCmd shows the notification feed.
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show your notification feed",
	Long: `List recent notifications from the platform.

Examples:
  tatame notifications
  tatame notifications --read n13   # mark one as read`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return notificationsCommand(cmd.Context())
	},
}

// discoverCmd searches for other members.
var discoverCmd = &cobra.Command{
	Use:   "discover [query]",
	Short: "Find other Blog House members",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return discoverCommand(cmd.Context(), query)
	},
}

// connectCmd sends a connection request.
var connectCmd = &cobra.Command{
	Use:   "connect <member-id>",
	Short: "Send a connection request to a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return connectCommand(cmd.Context(), args[0])
	},
}

func featuresCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	features, err := a.client.Features(ctx)
	if err != nil {
		return err
	}

	on := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	off := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, f := range features {
		if f.Enabled {
			fmt.Fprintf(cmdOut(), "%s %s\n", on.Render(ui.SymbolSuccess), f.Key)
		} else {
			fmt.Fprintf(cmdOut(), "%s %s\n", off.Render(ui.SymbolPending), f.Key)
		}
	}
	return nil
}

func notificationsCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if notificationsReadFlag != "" {
		if err := a.client.MarkNotificationRead(ctx, notificationsReadFlag); err != nil {
			return err
		}
		fmt.Fprintf(cmdOut(), "✓ Marked %s as read\n", notificationsReadFlag)
		return nil
	}

	notes, err := a.client.Notifications(ctx)
	if err != nil {
		return err
	}

	if len(notes) == 0 {
		fmt.Fprintln(cmdOut(), "No notifications.")
		return nil
	}

	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	unread := lipgloss.NewStyle().Foreground(ui.ColorInfo)
	for _, n := range notes {
		marker := muted.Render(ui.SymbolPending)
		if !n.Read {
			marker = unread.Render(ui.SymbolComplete)
		}
		fmt.Fprintf(cmdOut(), "%s %s %s\n",
			marker,
			n.Message,
			muted.Render(n.ID),
		)
	}
	return nil
}

func discoverCommand(ctx context.Context, query string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	members, err := a.client.DiscoverMembers(ctx, query)
	if err != nil {
		return err
	}

	if len(members) == 0 {
		fmt.Fprintln(cmdOut(), "No members found.")
		return nil
	}

	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, m := range members {
		line := m.Name
		if m.Headline != "" {
			line += " " + muted.Render("· "+m.Headline)
		}
		if m.Connected {
			line += " " + muted.Render("(connected)")
		}
		fmt.Fprintf(cmdOut(), "%s %s\n", line, muted.Render(m.ID))
	}
	return nil
}

func connectCommand(ctx context.Context, memberID string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.client.RequestConnection(ctx, memberID); err != nil {
		return err
	}

	fmt.Fprintf(cmdOut(), "✓ Connection request sent to %s\n", memberID)
	return nil
}

func init() {
	notificationsCmd.Flags().StringVar(&notificationsReadFlag, "read", "", "mark the given notification as read")

	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(connectCmd)
}
