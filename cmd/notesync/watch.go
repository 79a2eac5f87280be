package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/at-ishikawa/notesync/internal/api"
	"github.com/at-ishikawa/notesync/internal/autosave"
	"github.com/at-ishikawa/notesync/internal/metrics"
	"github.com/at-ishikawa/notesync/internal/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	var dir, pattern, metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Autosave note files named <note id>.md whenever they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("dir") {
				dir = cfg.Watch.Directory
			}
			if !flags.Changed("pattern") {
				pattern = cfg.Watch.Pattern
			}
			if !flags.Changed("metrics-addr") {
				metricsAddr = cfg.Metrics.Address
			}

			client := newAPIClient(cfg)
			defer func() {
				_ = client.Close()
			}()

			registry := prometheus.NewRegistry()
			recorder := metrics.NewAutosave(registry, "notes")
			watcher, err := watch.New(dir, pattern, api.NewNotes(client),
				watch.WithLogger(slog.Default()),
				watch.WithSessionOptions(sessionOptions(cfg, autosave.WithRecorder(recorder))...),
			)
			if err != nil {
				return fmt.Errorf("watch.New > %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				server := newMetricsServer(metricsAddr, registry)
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						slog.Default().Error("metrics server stopped", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = server.Shutdown(shutdownCtx)
				}()
				slog.Default().Info("serving metrics", "addr", metricsAddr)
			}

			return watcher.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory holding the note files (defaults to watch.directory)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob of the files to watch, relative to --dir (defaults to watch.pattern)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func newMetricsServer(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
