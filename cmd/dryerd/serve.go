package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dryerd/dryerd/internal/api"
	"github.com/dryerd/dryerd/internal/blob"
	"github.com/dryerd/dryerd/internal/config"
	"github.com/dryerd/dryerd/internal/lambdaurl"
	"github.com/dryerd/dryerd/internal/models"
	"github.com/dryerd/dryerd/internal/predict"
	"github.com/dryerd/dryerd/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the inference endpoint",
	Long: `Runs the drying prediction endpoint.

Inside an AWS Lambda runtime this starts the Function URL handler;
anywhere else it runs an HTTP server on the configured address.`,
	RunE: runServe,
}

var warmOnBoot bool

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&warmOnBoot, "warm", false, "resolve models before accepting requests")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, paths, err := buildService(ctx)
	if err != nil {
		return err
	}

	if warmOnBoot {
		fmt.Println("Warming model cache...")
		if err := svc.WarmUp(ctx, false); err != nil {
			return fmt.Errorf("failed to warm models: %w", err)
		}
	}

	// Inside the Lambda runtime the platform owns the transport.
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(lambdaurl.Handler(svc))
		return nil
	}

	cfg := config.Get()
	router := api.SetupRoutes(svc, paths, cfg)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Serving predictions on %s (PID: %d)\n", cfg.Server.Addr, os.Getpid())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		fmt.Printf("\nReceived %v, shutting down...\n", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildResolver wires storage and the blob store from the loaded
// configuration.
func buildResolver(ctx context.Context) (*models.Resolver, *storage.Paths, error) {
	cfg := config.Get()

	paths, err := storage.NewPathsAt(cfg.Storage.MountRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize paths: %w", err)
	}
	if err := paths.Initialize(); err != nil {
		return nil, nil, err
	}

	store, err := blob.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	return models.NewResolver(paths, store, cfg.Blob.Bucket, cfg.Blob.Prefix), paths, nil
}

// buildService wires the prediction service on top of the resolver.
func buildService(ctx context.Context) (*predict.Service, *storage.Paths, error) {
	resolver, paths, err := buildResolver(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Get()
	svc := predict.NewService(resolver, cfg.Models.DryingTime, cfg.Models.Distribution)

	return svc, paths, nil
}
