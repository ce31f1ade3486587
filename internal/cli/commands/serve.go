package commands

import (
	"context"
	"fmt"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/asklens-labs/asklens/internal/backend"
	"github.com/asklens-labs/asklens/internal/schema"
	"github.com/asklens-labs/asklens/internal/state"
	"github.com/asklens-labs/asklens/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	Watch     bool
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AskLens browser panel",
		Long: `Start a local web server that answers questions in the browser.

The panel shows the result table, the generated insight text, and the
About Data pills with hover explanations. When a local schema override
file is configured, changes to it re-render connected clients.`,
		Example: `  # Start on the default port
  asklens serve

  # Start on a custom port
  asklens serve --port 3000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the schema override file for changes")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Do not open the browser automatically")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig(cmd.Context())
	logger := getLogger(cmd.Context())

	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}
	autoOpen := cfg.UI.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	store := state.NewStore()
	store.SetHistoryLimit(cfg.HistoryLimit)

	server := ui.NewServer(ui.Config{
		Store:         store,
		Schemas:       schema.NewStore(cfg.SchemaURL, logger),
		Client:        backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger),
		Port:          port,
		SessionSecret: cfg.SessionSecret,
		SchemaFile:    cfg.SchemaFile,
		Watch:         watch,
		Logger:        logger,
	})

	if autoOpen {
		go openBrowser(fmt.Sprintf("http://localhost:%d", port))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
