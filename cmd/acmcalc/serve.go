package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/api"
	"github.com/warp/acm-engine/monitor"
	"github.com/warp/acm-engine/registry"
	"github.com/warp/acm-engine/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP API",
		Long: `Starts the HTTP API with the admin surface and, unless disabled, the
weekly document monitor. Stops gracefully on SIGINT or SIGTERM, waiting up
to 30 seconds for active requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 8080, "HTTP server port")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins")
	cmd.Flags().Bool("no-monitor", false, "do not start the document monitor")
	return cmd
}

// openRegistry opens the store and publishes the configured snapshot.
func openRegistry(ctx context.Context) (*sqlite.Store, *registry.Registry, error) {
	store, err := sqlite.New(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	reg := registry.New(store, acm.NewSnapshotHolder(nil), log)
	if err := reg.Load(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	return store, reg, nil
}

func newMonitor(store *sqlite.Store) *monitor.Monitor {
	mon := monitor.New(store, cfg.Monitor.Documents(), cfg.SMTP.Alerter(), log)
	mon.Interval = cfg.Monitor.Interval
	mon.Enabled = cfg.Monitor.Enabled
	return mon
}

func serve(ctx context.Context) error {
	store, reg, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.AdminPassword == "" {
		log.Warn("[Server] No admin password configured, admin endpoints are disabled")
	}

	mon := newMonitor(store)
	mon.Start()
	defer mon.Stop()

	handler := api.NewHandler(store, reg, mon, cfg.AdminPassword, log)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.CORSOrigins,
		StaticDir:      cfg.StaticDir,
		RequestLogging: cfg.RequestLogging,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("[Server] Starting on http://localhost:%d (%s)", cfg.Port, reg.Snapshot().Edition.Label())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("[Server] Stopped")
	return nil
}
