package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"procurement/db"
	"procurement/internal/service"
	"procurement/models"
)

// newSeedUserCmd заводит пользователя; вход выполняется через шлюз по email
func newSeedUserCmd() *cobra.Command {
	var u models.User
	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			dbConn, err := connect(cmd.Context(), cfg, cfg.MigrationsOnStart)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			svc := service.New(db.NewStorage(dbConn), service.WithLogger(log))
			created, err := svc.RegisterUser(cmd.Context(), u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Email, "email", "", "login email")
	cmd.Flags().StringVar(&u.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&u.Role, "role", models.RoleEvaluator, "procurement_manager, evaluator, dept_head or it_admin")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("name")
	return cmd
}
