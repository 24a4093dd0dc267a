package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// global flags
	logFormat   string
	storeDriver string

	rootCmd = &cobra.Command{
		Use:   "cityevents",
		Short: "City events API",
		Long: `cityevents serves the cities and events REST API.

Configuration comes from the environment (and .env when present).
Without a subcommand the HTTP server is started.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console); overrides LOG_FORMAT")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "storage backend (postgres, sqlite); overrides STORE_DRIVER")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}
