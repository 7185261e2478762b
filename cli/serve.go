package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"linear-reconciler/handlers"
	"linear-reconciler/services"
)

func newServeCommand(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve verification reports over HTTP and run the periodic scanner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			if port != 0 {
				a.config.Server.Port = port
			}

			verificationService := newVerificationService(a)
			scannerService := services.NewVerificationScannerService(verificationService, a.config)
			if a.config.Scanner.IntervalSeconds > 0 && a.config.Linear.ProjectFilter == "" {
				log.Println("SCANNER_INTERVAL_SECONDS set without LINEAR_PROJECT_FILTER, every project will be verified")
			}

			// Start scanner process
			scannerService.Start()
			defer scannerService.Stop()

			mux := http.NewServeMux()
			handlers.NewVerificationHandler(verificationService, scannerService, a.config).Register(mux)

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", a.config.Server.Port),
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Printf("Starting server on port %d", a.config.Server.Port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for interrupt signal
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			select {
			case err := <-serverErr:
				return fmt.Errorf("failed to start server: %w", err)
			case <-stop:
			}

			// Gracefully shutdown the server
			log.Println("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}

			log.Println("Server stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (defaults to SERVER_PORT)")

	return cmd
}
