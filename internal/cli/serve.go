package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/podpanel-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/podpanel-go/internal/domain/usecases"
	httpserver "github.com/0xcro3dile/podpanel-go/internal/infrastructure/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser panel",
	Example: `  podpanel serve
  podpanel serve --listen 0.0.0.0:8080 --watch ./transcripts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			addr := a.cfg.Server.ListenAddr
			if l, _ := cmd.Flags().GetString("listen"); l != "" {
				addr = l
			}

			srv, err := httpserver.NewServer(a.panel, addr, a.client.BaseURL(), a.cfg.API.RequestTimeout, a.logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			watchErr := make(chan error, 1)
			if dir, _ := cmd.Flags().GetString("watch"); dir != "" {
				go func() {
					watchErr <- ignoreCanceled(runDropFolder(ctx, a, dir))
					cancel()
				}()
			} else {
				close(watchErr)
			}

			serveErr := srv.Start(ctx)
			cancel()
			return errors.Join(serveErr, <-watchErr)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [DIR]",
	Short: "Upload transcripts dropped into a directory",
	Long: `Uploads the transcripts already in DIR, then every new or modified one.
A file whose content was already uploaded successfully is skipped; use
--journal to remember uploads across runs.`,
	Example: `  podpanel watch ./transcripts --journal data/journal.db`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return ignoreCanceled(runDropFolder(ctx, a, args[0]))
		})
	},
}

func runDropFolder(ctx context.Context, a *app, dir string) error {
	watcher, err := filewatcher.NewFSNotifyWatcher(a.cfg.Watch.Extensions, a.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	a.logger.Info("watching drop folder", "dir", dir)
	drop := usecases.NewDropFolderUseCase(a.panel, watcher, a.loader, a.journal, a.logger, a.cfg.Watch.Settle)
	return drop.Run(ctx, dir)
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default $PANEL_LISTEN_ADDR or 127.0.0.1:5173)")
	serveCmd.Flags().String("watch", "", "also upload transcripts dropped into this directory")
	rootCmd.AddCommand(serveCmd, watchCmd)
}
