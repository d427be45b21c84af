package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	userID     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Typesetting workload tracker with pacing and billing reconciliation",
	Long: `folio tracks manuscripts through a semi-monthly pay cycle.

It serves the tracker to MCP clients (folio serve) and offers a few
read-mostly commands for the terminal: cycle, pace and reconcile.

Configuration comes from an optional YAML file (--config or
FOLIO_CONFIG_PATH) and FOLIO_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("FOLIO_CONFIG_PATH", configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (or set FOLIO_CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "default", "User id for local commands")

	apikeyCmd.AddCommand(apikeyAddCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cycleCmd)
	rootCmd.AddCommand(paceCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(apikeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
