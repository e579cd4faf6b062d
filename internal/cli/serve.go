package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"discogsrec/internal/config"
	"discogsrec/internal/discogs"
	"discogsrec/internal/reconcile"
)

// shutdownTimeout bounds how long in-flight requests may run once a
// termination signal arrives.
const shutdownTimeout = 10 * time.Second

var envFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reconciliation service natively",
	Long: `serve starts the Go implementation of the reconciliation service,
configured through the environment (DISCOGS_USER, TOKEN, PORT) with an
optional dotenv file. This replaces launching the legacy Python entry
program.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file consulted before the environment")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	client := discogs.NewClient(cfg.Token)
	svc := reconcile.New(client)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		slog.Info("reconciliation service listening", "addr", srv.Addr, "user", cfg.DiscogsUser)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
