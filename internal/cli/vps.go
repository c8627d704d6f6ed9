package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bloghouse/tatame/internal/api"
	"github.com/bloghouse/tatame/internal/errors"
	"github.com/bloghouse/tatame/internal/provision"
	"github.com/bloghouse/tatame/internal/session"
	"github.com/bloghouse/tatame/internal/transport"
	"github.com/bloghouse/tatame/internal/ui"
)

// vps setup flags
var (
	setupHostFlag     string
	setupUserFlag     string
	setupPasswordFlag string
	setupKeyFlag      bool
	setupDomainFlag   string
	setupAdminFlag    string
	setupEmailFlag    string
)

// vps simple-setup flags
var (
	simpleHostFlag     string
	simpleUserFlag     string
	simplePasswordFlag string
)

// vpsCmd groups server provisioning commands.
var vpsCmd = &cobra.Command{
	Use:   "vps",
	Short: "Provision and manage blog servers",
}

// vpsSetupCmd provisions a server directly over SSH.
var vpsSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Turn a fresh VPS into a WordPress host",
	Long: `Connect to a brand-new server over SSH and install the full blog stack:
nginx, PHP, MySQL, and WordOps. Optionally creates the first WordPress
site in the same run.

Progress streams live: each install step, its command output, and an
overall progress bar. Missing connection details are prompted for.

Examples:
  tatame vps setup
  tatame vps setup --host 203.0.113.5 --user root
  tatame vps setup --host 203.0.113.5 --domain example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return vpsSetupCommand(cmd.Context())
	},
}

// vpsSimpleSetupCmd hands provisioning to the hosted setup service.
var vpsSimpleSetupCmd = &cobra.Command{
	Use:   "simple-setup",
	Short: "Let Blog House provision the server for you",
	Long: `Send the server credentials to the Blog House setup service and watch
its progress over the platform's event stream. The install runs on
Blog House infrastructure, so you can close the terminal and the setup
keeps going.

Examples:
  tatame vps simple-setup --host 203.0.113.5
  tatame vps simple-setup --host 203.0.113.5 --user root`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return vpsSimpleSetupCommand(cmd.Context())
	},
}

// vpsSetupCommand runs the direct SSH provisioning flow.
func vpsSetupCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	target := provision.Target{
		Host:       setupHostFlag,
		User:       setupUserFlag,
		Password:   setupPasswordFlag,
		KeyAuth:    setupKeyFlag,
		Domain:     setupDomainFlag,
		AdminUser:  setupAdminFlag,
		AdminEmail: setupEmailFlag,
	}
	if target.User == "" {
		target.User = a.cfg.SSH.User
	}
	if target.Domain == "" {
		target.Domain = a.cfg.Blog.Domain
	}
	if target.AdminUser == "" {
		target.AdminUser = a.cfg.Blog.AdminUser
	}
	if target.AdminEmail == "" {
		target.AdminEmail = a.cfg.Blog.AdminEmail
	}

	if target.Host == "" || (!target.KeyAuth && target.Password == "") {
		if !interactive() {
			return errors.New(errors.ErrValidate,
				"Server host and password are required",
				"Pass --host and --password (or --key-auth), or run interactively.")
		}
		if err := promptTarget(&target); err != nil {
			return err
		}
	}

	if err := target.Validate(); err != nil {
		return err
	}

	dial := provision.PasswordDialer(a.cfg.SSH.Timeout)
	if target.KeyAuth {
		dial = provision.KeyDialer(a.cfg.SSH.Timeout)
	}
	engine := provision.NewEngine(dial, log())
	events := engine.Run(ctx, target)

	sess := session.New(target.Host)
	sess.Start()

	return watchSession(sess, events)
}

// vpsSimpleSetupCommand starts a hosted provisioning run and follows its
// event stream.
func vpsSimpleSetupCommand(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	host := simpleHostFlag
	user := simpleUserFlag
	password := simplePasswordFlag
	if user == "" {
		user = a.cfg.SSH.User
	}

	if host == "" || password == "" {
		if !interactive() {
			return errors.New(errors.ErrValidate,
				"Server host and password are required",
				"Pass --host and --password, or run interactively.")
		}
		if err := promptCredentials(&host, &user, &password); err != nil {
			return err
		}
	}

	sock, events, err := followEvents(ctx, a)
	if err != nil {
		return err
	}
	defer sock.Close()

	started, err := a.client.VPSSimpleSetup(ctx, api.SimpleSetupRequest{
		Host:     host,
		Username: user,
		Password: password,
	})
	if err != nil {
		return err
	}
	if err := sock.Subscribe(started.Channel); err != nil {
		return err
	}
	log().Debug("setup session %s on channel %s", started.SessionID, started.Channel)

	sess := session.New(host)
	sess.Start()

	return watchSession(sess, events)
}

// followEvents opens the authenticated event stream and starts reading.
// The socket is dialed before the provisioning request goes out, so frames
// the backend pushes the moment the request lands are not missed. Callers
// Subscribe with the run channel once the request returns it.
func followEvents(ctx context.Context, a *app) (*transport.Socket, <-chan session.Event, error) {
	token, err := a.tokens.Token()
	if err != nil {
		return nil, nil, err
	}
	sock, err := transport.Dial(ctx, a.cfg.EventsURL(), token, log())
	if err != nil {
		return nil, nil, err
	}
	return sock, sock.Listen(ctx), nil
}

// watchSession renders the event stream, either as the live Bubble Tea view
// or as plain step lines when not interactive. Returns an error when the
// session ends in the error state so the process exit code reflects it.
func watchSession(sess *session.Session, events <-chan session.Event) error {
	if interactive() {
		model := ui.NewSetupModel(sess, events)
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Setup view crashed", "")
		}
		if m, ok := final.(ui.SetupModel); ok && m.Aborted {
			fmt.Println("Left the setup view. Provisioning continues on the server.")
			return nil
		}
	} else {
		renderer := newPlainRenderer(sess, cmdOut())
		for ev := range events {
			sess.Apply(ev)
			renderer.render(ev)
		}
	}

	return sessionResult(sess)
}

// plainRenderer prints events as step lines for quiet and non-TTY runs,
// timing each step so completions read like the live view's summary.
type plainRenderer struct {
	display   *ui.StepDisplay
	sess      *session.Session
	w         io.Writer
	runStart  time.Time
	stepStart time.Time
}

func newPlainRenderer(sess *session.Session, w io.Writer) *plainRenderer {
	now := time.Now()
	return &plainRenderer{
		display:   ui.NewStepDisplay(w),
		sess:      sess,
		w:         w,
		runStart:  now,
		stepStart: now,
	}
}

// render prints one event.
func (r *plainRenderer) render(ev session.Event) {
	switch e := ev.(type) {
	case session.Connected:
		fmt.Fprintf(r.w, "Connected to %s\n", r.sess.Host)
	case session.StepStart:
		r.stepStart = time.Now()
		r.display.RenderProgress(e.Name)
	case session.StepComplete:
		r.display.RenderSuccess(e.Name, time.Since(r.stepStart))
	case session.Output:
		r.display.RenderOutput(e.Output)
	case session.StepError:
		r.display.RenderFailed(e.Name, time.Since(r.stepStart))
		r.display.RenderOutput(e.Error)
	case session.SetupComplete:
		r.display.Divider()
		fmt.Fprintf(r.w, "✓ Setup complete %s in %s\n",
			ui.RenderBar(100, 20), ui.FormatDuration(time.Since(r.runStart)))
	case session.SetupError:
		r.display.Newline()
		fmt.Fprintf(r.w, "✗ Setup failed: %s\n", e.Error)
	}
}

// sessionResult converts the final session state into a command result.
func sessionResult(sess *session.Session) error {
	switch sess.Status {
	case session.StatusError:
		return errors.New(errors.ErrExec, sess.ErrorMessage,
			"Check the server is reachable and retry. Output above has details.")
	case session.StatusComplete:
		return nil
	default:
		return errors.New(errors.ErrTransport,
			"The event stream ended before setup finished",
			"The install may still be running on the server. Check 'tatame site list' in a few minutes.")
	}
}

// promptTarget collects the full direct-setup form.
func promptTarget(t *provision.Target) error {
	credentials := []huh.Field{
		huh.NewInput().
			Title("Server IP or hostname").
			Placeholder("203.0.113.5").
			Value(&t.Host).
			Validate(required("host")),
		huh.NewInput().
			Title("SSH user").
			Value(&t.User).
			Validate(required("user")),
	}
	if !t.KeyAuth {
		credentials = append(credentials,
			huh.NewInput().
				Title("SSH password").
				EchoMode(huh.EchoModePassword).
				Value(&t.Password).
				Validate(required("password")))
	}
	form := huh.NewForm(
		huh.NewGroup(credentials...),
		huh.NewGroup(
			huh.NewInput().
				Title("Site domain (optional)").
				Description("Leave empty to provision the stack without a site").
				Placeholder("example.com").
				Value(&t.Domain),
			huh.NewInput().
				Title("WordPress admin user").
				Value(&t.AdminUser),
			huh.NewInput().
				Title("WordPress admin email").
				Placeholder("you@example.com").
				Value(&t.AdminEmail),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrValidate,
			"Failed to read server details",
			"Pass them as flags instead: --host, --user, --password.")
	}
	return nil
}

// promptCredentials collects just the connection details for the hosted flow.
func promptCredentials(host, user, password *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server IP or hostname").
				Placeholder("203.0.113.5").
				Value(host).
				Validate(required("host")),
			huh.NewInput().
				Title("SSH user").
				Value(user).
				Validate(required("user")),
			huh.NewInput().
				Title("SSH password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrValidate,
			"Failed to read server details",
			"Pass them as flags instead: --host, --user, --password.")
	}
	return nil
}

// required builds a non-empty validator for form fields.
func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func init() {
	vpsSetupCmd.Flags().StringVar(&setupHostFlag, "host", "", "server IP or hostname")
	vpsSetupCmd.Flags().StringVar(&setupUserFlag, "user", "", "SSH user (default from config, usually root)")
	vpsSetupCmd.Flags().StringVar(&setupPasswordFlag, "password", "", "SSH password (prompted for if omitted)")
	vpsSetupCmd.Flags().BoolVar(&setupKeyFlag, "key-auth", false, "use SSH keys and ~/.ssh/config instead of a password")
	vpsSetupCmd.Flags().StringVar(&setupDomainFlag, "domain", "", "create this WordPress site after the stack installs")
	vpsSetupCmd.Flags().StringVar(&setupAdminFlag, "admin-user", "", "WordPress admin username")
	vpsSetupCmd.Flags().StringVar(&setupEmailFlag, "admin-email", "", "WordPress admin email")

	vpsSimpleSetupCmd.Flags().StringVar(&simpleHostFlag, "host", "", "server IP or hostname")
	vpsSimpleSetupCmd.Flags().StringVar(&simpleUserFlag, "user", "", "SSH user (default from config, usually root)")
	vpsSimpleSetupCmd.Flags().StringVar(&simplePasswordFlag, "password", "", "SSH password (prompted for if omitted)")

	vpsCmd.AddCommand(vpsSetupCmd)
	vpsCmd.AddCommand(vpsSimpleSetupCmd)
	rootCmd.AddCommand(vpsCmd)
}
