package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run the configuration bootstrap",
	Long: `Resolve the runtime configuration exactly as serve would and report
which fields are present. Field values are never printed. Exits non-zero
when the resolved configuration cannot issue tokens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewLogger("check")

		loadEnv(log)
		applyEnvDefaults(cmd)

		cfg := bootstrap(context.Background(), log)

		fmt.Printf("secret name:  %s\n", secretName)
		fmt.Printf("region:       %s\n", awsRegion)
		fmt.Printf("server URL:   %s\n", presence(cfg.ServerURL != ""))
		fmt.Printf("API key:      %s\n", presence(cfg.APIKey != ""))
		fmt.Printf("API secret:   %s\n", presence(cfg.APISecret != ""))
		fmt.Printf("caller keys:  %d\n", len(cfg.ValidKeys))

		if len(cfg.ValidKeys) == 0 {
			log.Warn().Msg("no caller keys configured; every token request will be rejected")
		}

		if !cfg.HasCredentials() {
			return fmt.Errorf("media server credentials are incomplete")
		}

		return nil
	},
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "MISSING"
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addStoreFlags(checkCmd)
}
