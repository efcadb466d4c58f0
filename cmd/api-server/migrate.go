package main

import (
	"github.com/spf13/cobra"

	"procurement/db/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			dbConn, err := connect(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			if err := migrations.Run(cmd.Context(), dbConn.DB, command); err != nil {
				return err
			}
			log.WithField("command", command).Info("migrations done")
			return nil
		},
	}
}
