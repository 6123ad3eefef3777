package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mcceval/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "mcceval",
	Short:        "Merchant category classification evaluator",
	Long:         "Mcceval runs labeled merchants through one or more MCC classification strategies and scores each strategy's accuracy against the ground truth.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-log-file", false, "Disable the log file under logs/")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(codesCmd)
	rootCmd.AddCommand(versionCmd)
}

// initLogging configures the global logger from the persistent flags.
// Every subcommand calls it first.
func initLogging(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noFile, _ := cmd.Flags().GetBool("no-log-file")

	logDir := "logs"
	if noFile {
		logDir = ""
	}
	return logging.Initialize(verbose, logDir)
}
