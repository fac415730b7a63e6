package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filebridge/filebridge/pkg/environment"
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/server"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// staleArtifactAge is the cutoff for the startup sweep of temp artifacts
// orphaned by a previous crash.
const staleArtifactAge = 24 * time.Hour

// NewServeCommand starts the HTTP server and blocks until shutdown.
func NewServeCommand(fs afero.Fs, logger *logging.Logger) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the filebridge HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := environment.NewEnvironment(fs)
			if err != nil {
				return err
			}
			if port != "" {
				env.Port = port
			}

			srv := server.New(fs, env, logger)
			srv.Workspace().Sweep(staleArtifactAge)

			httpServer := &http.Server{
				Addr:              env.ListenAddr(),
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Graceful shutdown on SIGINT/SIGTERM: stop accepting new
			// requests, let in-flight conversions drain.
			go func() {
				sigChan := make(chan os.Signal, 1)
				signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
				<-sigChan
				logger.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown error", "error", err)
				}
			}()

			logger.Info("listening", "addr", env.ListenAddr(), "workDir", env.WorkDir)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
	return cmd
}
