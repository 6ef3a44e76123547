package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/hexmines/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	Long: `Run the HTTP and websocket game server.

Records of finished games are kept when DATABASE_URL or POSTGRES_HOST is set;
pending migrations are applied on start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return app.New(log, migrations).Start(ctx)
	},
}
