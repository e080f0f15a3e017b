// Package cli wires the podpanel commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/podpanel-go/internal/adapters/apiclient"
	"github.com/0xcro3dile/podpanel-go/internal/adapters/journal"
	"github.com/0xcro3dile/podpanel-go/internal/adapters/loader"
	"github.com/0xcro3dile/podpanel-go/internal/config"
	"github.com/0xcro3dile/podpanel-go/internal/domain/ports"
	"github.com/0xcro3dile/podpanel-go/internal/domain/usecases"
	"github.com/0xcro3dile/podpanel-go/internal/logging"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	api       string
	envFile   string
	timeout   time.Duration
	journal   string
	logLevel  string
	logFormat string
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "podpanel",
	Short: "Client panel for the podcast summarization backend",
	Long: `podpanel drives a podcast summarization backend: upload transcripts,
ingest YouTube videos by subtitles or Whisper, ask questions and list the
indexed documents. Run "podpanel serve" for the browser panel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.api, "api", "", "backend base URL (default $PANEL_API_BASE_URL)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (default $PANEL_REQUEST_TIMEOUT or 10m)")
	pf.StringVar(&flags.journal, "journal", "", "SQLite journal path (default $PANEL_JOURNAL_PATH, empty keeps it in memory)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error")
	pf.StringVar(&flags.logFormat, "log-format", "", "text|json")
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// app holds the wired dependencies of one command run.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	client  *apiclient.Client
	loader  *loader.FileLoader
	journal ports.Journal
	panel   *usecases.PanelUseCase
	closers []func() error
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return config.Config{}, err
	}

	pf := cmd.Flags()
	if pf.Changed("api") {
		cfg.API.BaseURL = flags.api
	}
	if pf.Changed("timeout") {
		cfg.API.RequestTimeout = flags.timeout
	}
	if pf.Changed("journal") {
		cfg.Journal.Path = flags.journal
	}
	if pf.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if pf.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	return cfg, nil
}

// newApp builds config, logger, backend client, loader, journal and panel.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	client, err := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.RequestTimeout))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		loader: loader.NewFileLoader(cfg.Watch.Extensions),
	}

	if cfg.Journal.Path != "" {
		store, err := journal.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		a.journal = store
		a.closers = append(a.closers, store.Close)
	} else {
		a.journal = journal.NewInMemoryStore()
	}

	a.panel = usecases.NewPanelUseCase(client, a.loader, a.journal, logger, cfg.API.RequestTimeout)
	return a, nil
}

// Close releases what newApp opened.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// withApp runs fn with a wired app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

// ignoreCanceled treats a shutdown by signal as success.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resultError prints a successful result and turns any other outcome into an error.
func resultError(cmd *cobra.Command, text string, succeeded bool) error {
	if !succeeded {
		return errors.New(text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
