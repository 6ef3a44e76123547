package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/hexmines/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		db, migrator, err := database.ConnectAndMigrate(ctx, migrations)
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		defer db.Close()
		defer migrator.Close()

		version, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("failed to check migration version: %w", err)
		}
		log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("migration successful")
		return nil
	},
}
