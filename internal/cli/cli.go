// Package cli implements the kidwatch dashboard command line client.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/config"
	"github.com/kidwatch/kidwatch/internal/session"
)

// App holds the wired client-side services shared by all commands.
type App struct {
	sessions *session.Manager
	client   *backend.Client
	logger   zerolog.Logger
	out      io.Writer
}

type rootFlags struct {
	baseURL   string
	statePath string
	verbose   bool
}

// NewRootCmd builds the dashboard command tree.
func NewRootCmd() *cobra.Command {
	app := &App{out: os.Stdout}
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Parental monitoring dashboard for the terminal",
		Long: `dashboard signs in to the kidwatch backend and shows the telemetry
collected from monitored devices: calls, messages, locations, contacts,
applications, processes and notifications.

Start with 'dashboard login', then 'dashboard devices' to see what you
can monitor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "backend API base URL")
	rootCmd.PersistentFlags().StringVar(&flags.statePath, "state", "", "session state file path")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newForgotPasswordCmd(app),
		newResetPasswordCmd(app),
		newDevicesCmd(app),
		newSelectCmd(app),
		newContactsCmd(app),
		newCallsCmd(app),
		newSMSCmd(app),
		newLocationsCmd(app),
		newAppsCmd(app),
		newProcessesCmd(app),
		newNotificationsCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}

// Execute runs the dashboard CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *App) init(flags *rootFlags) error {
	level := zerolog.WarnLevel
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	statePath := flags.statePath
	if statePath == "" {
		statePath = cfg.Client.StatePath
	}
	if statePath == "" {
		statePath, err = session.DefaultStatePath()
		if err != nil {
			return err
		}
	}

	a.sessions = session.NewManager(session.NewFileStore(statePath))

	baseURL := flags.baseURL
	if baseURL == "" {
		baseURL = cfg.Client.BaseURL
	}

	timeout := cfg.Client.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	a.client = backend.NewClient(backend.ClientConfig{
		BaseURL:    baseURL,
		Sessions:   a.sessions,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     a.logger,
	})

	return nil
}
