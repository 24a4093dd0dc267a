package cmd

import (
	"context"
	"time"

	"github.com/geocoder89/cityevents/internal/db"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample users, cities and events",
	Long: `Load the sample data set into the configured store.

Rows that already exist are left alone, so running it twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := observability.NewLogger(cfg.Env, cfg.LogFormat)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		store, err := openStore(ctx, cfg, log, nil)
		if err != nil {
			return err
		}
		defer store.Close()

		return db.Seed(ctx, store, log)
	},
}
