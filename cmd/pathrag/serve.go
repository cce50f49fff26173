package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akilivoice/pathrag/internal/cli"
	"github.com/akilivoice/pathrag/internal/logging"
	"github.com/akilivoice/pathrag/pkg/adapters/httpapi"
	"github.com/akilivoice/pathrag/pkg/adapters/voicews"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	Long: `Starts PathRAG in server mode: the JSON control surface under /sessions,
the voice WebSocket gateway under /voice, and Prometheus metrics under /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		logger := logging.New(slog.LevelInfo)
		svc, metrics, cleanup, err := cli.BuildService(serviceOptions(cmd), logger)
		if err != nil {
			fmt.Printf("Error initializing pathrag: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		mux := http.NewServeMux()
		mux.Handle("/voice", voicews.NewGateway(svc,
			voicews.WithLogger(logger),
			voicews.WithNoiseCallback(func(nodeID, _ string) {
				metrics.NoiseDropped.Inc()
				logger.Debug("noise dropped", "node", nodeID)
			}),
		))
		mux.Handle("/", httpapi.NewHandler(svc,
			httpapi.WithLogger(logger),
			httpapi.WithMetricsHandler(metrics.Handler()),
		))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting PathRAG Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("PathRAG Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
