package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/hexmines/internal/config"
	"github.com/vancomm/hexmines/internal/mines"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "hexmines",
	Short: "Multi-weight minesweeper on square and hex boards",
	Long: `hexmines serves minesweeper games where a tile may hold several
mines and boards are either square or hexagonal.

Start the game server
	hexmines serve

Print a generated board
	hexmines gen --difficulty expert --mines-per-tile 3
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := config.NewLogger()
		if err != nil {
			return err
		}
		log = logger
		mines.Log = logger
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, genCmd)
}
