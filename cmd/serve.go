package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ivylabs/mediatoken_backend/internal/config"
	"github.com/ivylabs/mediatoken_backend/internal/logger"
	"github.com/ivylabs/mediatoken_backend/internal/secrets"
	"github.com/ivylabs/mediatoken_backend/internal/server"
	"github.com/ivylabs/mediatoken_backend/internal/token"
)

var (
	port       int
	secretName string
	awsRegion  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the token issuance server",
	Long: `Start the HTTP server that issues media room access tokens.
Configuration is resolved from the remote secret store first and falls back
to environment variables when the store or the bundle is unavailable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewLogger("server")

		loadEnv(log)
		applyEnvDefaults(cmd)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg := bootstrap(ctx, log)
		issuer := token.NewIssuer(cfg, log)

		gin.SetMode(gin.ReleaseMode)
		srv := server.NewServer(issuer, log)

		// Set up signal handling
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		// Start server in a goroutine
		errChan := make(chan error, 1)
		go func() {
			addr := fmt.Sprintf(":%d", port)
			if err := srv.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// Wait for either a server error or a shutdown signal
		select {
		case err := <-errChan:
			return fmt.Errorf("server error: %v", err)
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("initiating shutdown")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown error: %v", err)
			}

			log.Info().Msg("shutdown completed gracefully")
		}

		return nil
	},
}

// applyEnvDefaults overrides the store flags from the environment when they
// were not set explicitly on the command line.
func applyEnvDefaults(cmd *cobra.Command) {
	if !cmd.Flags().Changed("secret-name") {
		if name := os.Getenv("AWS_SECRET_NAME"); name != "" {
			secretName = name
		}
	}
	if !cmd.Flags().Changed("region") {
		if region := os.Getenv("CUSTOM_AWS_REGION"); region != "" {
			awsRegion = region
		}
	}
}

// bootstrap resolves the runtime configuration: remote secret store first,
// environment variables on any failure. It never fails; a degraded
// configuration surfaces per request as a misconfiguration error.
func bootstrap(ctx context.Context, log *logger.Logger) *config.RuntimeConfig {
	var store secrets.Client
	managerClient, err := secrets.NewManagerClient(ctx, awsRegion, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create secret store client")
	} else {
		store = managerClient
	}

	return config.Resolve(ctx, store, config.Options{SecretName: secretName, Region: awsRegion}, log)
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&secretName, "secret-name", "asr-media-server-config", "Secret bundle holding the media server configuration")
	cmd.Flags().StringVar(&awsRegion, "region", "ap-southeast-1", "AWS region of the secret store")
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Add flags for the serve command
	serveCmd.Flags().IntVarP(&port, "port", "p", 8000, "Port to run the server on")
	addStoreFlags(serveCmd)
}
