package cli

import (
	"io"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/bloghouse/tatame/internal/api"
	"github.com/bloghouse/tatame/internal/auth"
	"github.com/bloghouse/tatame/internal/config"
)

// app bundles the pieces every command needs: resolved config, credential
// storage, and the platform client.
type app struct {
	cfg    *config.Config
	tokens *auth.FileTokenSource
	client *api.Client
}

// newApp loads config and builds the API client. Commands call this from
// RunE so flag parsing has already happened.
func newApp() (*app, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}
	applyOutputConfig(cfg.Output)

	tokens := auth.NewFileTokenSource(cfg.Auth.Dir)
	client := api.NewClient(cfg.API.URL, tokens,
		api.WithLogger(log()),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))

	return &app{
		cfg:    cfg,
		tokens: tokens,
		client: client,
	}, nil
}

// cmdOut is where command output goes. A variable so tests can capture it.
var cmdOut = func() io.Writer { return os.Stdout }

// interactive reports whether the live setup view can run: stdout is a
// terminal and the user didn't ask for quiet output.
func interactive() bool {
	if quietFlag {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
