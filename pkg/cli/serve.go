package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/seamark-lab/quartermaster/pkg/cli/config"
	httpctrl "github.com/seamark-lab/quartermaster/pkg/controller/http"
	"github.com/seamark-lab/quartermaster/pkg/service/storage"
	"github.com/seamark-lab/quartermaster/pkg/service/worker"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var storageBackend string
	var sweepInterval time.Duration
	var dedupWindow time.Duration
	var catalogCfg config.CatalogConfig
	var repoCfg config.Repository
	var authCfg config.Auth
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("QUARTERMASTER_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Document storage backend (gcs or memory)",
			Value:       "gcs",
			Sources:     cli.EnvVars("QUARTERMASTER_STORAGE_BACKEND"),
			Destination: &storageBackend,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval of the idempotency record sweep",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("QUARTERMASTER_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
		&cli.DurationFlag{
			Name:        "dedup-window",
			Usage:       "How long an idempotency key pins its first result",
			Value:       24 * time.Hour,
			Sources:     cli.EnvVars("QUARTERMASTER_DEDUP_WINDOW"),
			Destination: &dedupWindow,
		},
	}

	// Add shared config flags
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load and compile the action catalog
			_, registry, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load action catalog")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Configure authentication
			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authCfg.IsNoAuthMode() {
				logging.Default().Warn("Running in no-auth mode (development only)",
					"user_id", authCfg.NoAuthUID())
			}

			ucOpts := []usecase.Option{
				usecase.WithDedupWindow(dedupWindow),
			}

			// Notification channel is optional
			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack notifications enabled")
			} else {
				logging.Default().Info("Slack not configured, action notifications disabled")
			}

			// Document storage backend
			switch storageBackend {
			case "gcs":
				gcs, err := storage.NewGCS(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize GCS storage")
				}
				defer func() {
					if err := gcs.Close(); err != nil {
						logging.Default().Error("failed to close storage client", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithStorage(gcs))

			case "memory":
				logging.Default().Info("Using in-memory document storage (development mode)")
				ucOpts = append(ucOpts, usecase.WithStorage(storage.NewMemory()))

			default:
				return goerr.New("invalid storage backend", goerr.V("backend", storageBackend))
			}

			uc := usecase.New(repo, registry, ucOpts...)

			// Expired idempotency records are collected in the background
			sweeper := worker.NewIdempotencySweepWorker(repo, sweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start idempotency sweep worker")
			}

			httpHandler := httpctrl.New(uc, httpctrl.WithAuth(authUC))
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				sweeper.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
