package cli

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions are the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	apiURL     string
	store      string
}

// Execute runs the CLI.
func Execute() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "quizdom",
		Short:         "QUIZDOM trivia quiz client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", os.Getenv("QUIZDOM_API_URL"), "quiz backend base URL (empty plays offline)")
	cmd.PersistentFlags().StringVar(&opts.store, "store", os.Getenv("QUIZDOM_STORE"), "local store driver: memory, sqlite or redis")
	cmd.AddCommand(NewPlayCmd(opts))
	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewLeaderboardCmd(opts))
	cmd.AddCommand(NewSettingsCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	return cmd
}
