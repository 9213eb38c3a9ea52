package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "mediatoken",
	Short: "Media Server token issuance service",
	Long: `mediatoken issues short-lived room access tokens for the media server.
Callers authenticate with a pre-shared API key and receive a signed token
scoped to joining a freshly named room, with agent dispatch metadata embedded.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadEnv loads the env file before configuration is resolved. A missing
// file is not an error: deployments often configure through the process
// environment alone.
func loadEnv(log *logger.Logger) {
	var err error
	if envFile != "" {
		err = godotenv.Load(envFile)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Warn().Err(err).Msg("no env file loaded")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "config", "c", "", "env file to load (default is .env)")
}
